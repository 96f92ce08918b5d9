package handlers

import (
	"encoding/json"
	"errors"

	"github.com/artmarket/backend/internal/config"
	"github.com/artmarket/backend/internal/middleware"
	"github.com/artmarket/backend/internal/models"
	"github.com/artmarket/backend/internal/storage"
	"github.com/artmarket/backend/internal/validation"
	"github.com/artmarket/backend/pkg/logger"
	"github.com/artmarket/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsersHandler struct {
	DB      *gorm.DB
	Storage *storage.Client
	Upload  config.UploadConfig
}

func NewUsersHandler(db *gorm.DB, store *storage.Client, uploadCfg config.UploadConfig) *UsersHandler {
	return &UsersHandler{DB: db, Storage: store, Upload: uploadCfg}
}

func (h *UsersHandler) loadUser(c *fiber.Ctx) (*models.User, uuid.UUID, error) {
	userID, err := parseUUID(c.Params("userId"))
	if err != nil {
		return nil, uuid.Nil, utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Invalid user ID")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "User not found")
		}
		return nil, uuid.Nil, utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed loading user")
	}

	return &user, userID, nil
}

// requireSelf restricts profile mutation to the profile's owner. Reads stay
// open to any authenticated user.
func requireSelf(c *fiber.Ctx, userID uuid.UUID) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "unauthorized")
	}
	if currentUser.ID != userID {
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "Not authorized")
	}
	return nil
}

func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	user, _, errResp := h.loadUser(c)
	if user == nil {
		return errResp
	}
	return utils.Success(c, fiber.StatusOK, user)
}

type educationRequest struct {
	Education json.RawMessage `json:"education"`
}

func (h *UsersHandler) UpdateEducation(c *fiber.Ctx) error {
	user, userID, errResp := h.loadUser(c)
	if user == nil {
		return errResp
	}
	if err := requireSelf(c, userID); err != nil {
		return err
	}

	var req educationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}

	var entries []models.EducationEntry
	if len(req.Education) == 0 || json.Unmarshal(req.Education, &entries) != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Education must be an array")
	}

	if errs := validation.Education(entries); len(errs) > 0 {
		return utils.ValidationError(c, errs)
	}

	// Wholesale replacement, like the rest of the profile arrays.
	user.Education = entries
	if err := h.DB.Save(user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed updating education")
	}

	return utils.Success(c, fiber.StatusOK, user)
}

type skillsRequest struct {
	Skills json.RawMessage `json:"skills"`
}

func (h *UsersHandler) UpdateSkills(c *fiber.Ctx) error {
	user, userID, errResp := h.loadUser(c)
	if user == nil {
		return errResp
	}
	if err := requireSelf(c, userID); err != nil {
		return err
	}

	var req skillsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}

	var entries []models.SkillEntry
	if len(req.Skills) == 0 || json.Unmarshal(req.Skills, &entries) != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Skills must be an array")
	}

	if errs := validation.Skills(entries); len(errs) > 0 {
		return utils.ValidationError(c, errs)
	}

	user.Skills = entries
	if err := h.DB.Save(user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed updating skills")
	}

	return utils.Success(c, fiber.StatusOK, user)
}

type contactRequest struct {
	ContactInfo map[string]string `json:"contactInfo"`
	Contacts    json.RawMessage   `json:"contacts"`
}

func (h *UsersHandler) UpdateContact(c *fiber.Ctx) error {
	user, userID, errResp := h.loadUser(c)
	if user == nil {
		return errResp
	}
	if err := requireSelf(c, userID); err != nil {
		return err
	}

	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}

	if req.ContactInfo == nil && len(req.Contacts) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "No contact payload provided")
	}

	// Only the supplied contactInfo sub-fields are merged; omitted keys keep
	// their stored values.
	if req.ContactInfo != nil {
		merged := user.ContactInfo
		for key, value := range req.ContactInfo {
			switch key {
			case "email":
				merged.Email = value
			case "linkedin":
				merged.Linkedin = value
			case "portfolio":
				merged.Portfolio = value
			case "whatsapp":
				merged.Whatsapp = value
			case "instagram":
				merged.Instagram = value
			}
		}
		if errs := validation.ContactInfo(&merged); len(errs) > 0 {
			return utils.ValidationError(c, errs)
		}
		user.ContactInfo = merged
	}

	if len(req.Contacts) > 0 {
		var links []models.ContactLink
		if json.Unmarshal(req.Contacts, &links) != nil {
			return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Contacts must be an array")
		}
		if errs := validation.ContactLinks(links); len(errs) > 0 {
			return utils.ValidationError(c, errs)
		}
		user.Contacts = links
	}

	if err := h.DB.Save(user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed updating contact info")
	}

	return utils.Success(c, fiber.StatusOK, user)
}

func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	user, userID, errResp := h.loadUser(c)
	if user == nil {
		return errResp
	}
	if err := requireSelf(c, userID); err != nil {
		return err
	}

	var req validation.ProfileUpdateInput
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}

	fileHeader, err := formImage(c, h.Upload, "profilePic")
	if err != nil {
		return rejectUpload(c, h.Upload, err)
	}

	if errs := validation.ProfileUpdate(&req); len(errs) > 0 {
		return utils.ValidationError(c, errs)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Headline != nil {
		user.Headline = req.Headline
	}
	if req.ProfilePic != nil {
		user.ProfilePic = req.ProfilePic
	}

	// An uploaded picture overrides any supplied profilePic value.
	if fileHeader != nil {
		uploaded, err := storeImage(c, h.Storage, fileHeader, "profiles")
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed uploading profile picture")
		}
		user.ProfilePic = &uploaded
	}

	if err := h.DB.Save(user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed updating profile")
	}

	logger.InfoWithUser(user.ID.String(), "profile_updated", map[string]interface{}{
		"user_id": user.ID.String(),
	})

	return utils.Success(c, fiber.StatusOK, user)
}
