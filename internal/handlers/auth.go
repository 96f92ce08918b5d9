package handlers

import (
	"errors"

	"github.com/artmarket/backend/internal/models"
	"github.com/artmarket/backend/internal/validation"
	"github.com/artmarket/backend/pkg/logger"
	"github.com/artmarket/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req validation.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}

	if errs := validation.Registration(&req); len(errs) > 0 {
		return utils.ValidationError(c, errs)
	}

	var existing models.User
	if err := h.DB.First(&existing, "email = ?", req.Email).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, utils.CodeConflict, "Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed checking existing user")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed to hash password")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.UserRole(req.Role),
	}

	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Error(c, fiber.StatusConflict, utils.CodeConflict, "Email is already registered")
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed creating user")
	}

	logger.Info("user_registered", map[string]interface{}{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    string(user.Role),
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message": "User registered successfully",
		"user":    user.Public(),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req validation.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}

	if errs := validation.Login(&req); len(errs) > 0 {
		return utils.ValidationError(c, errs)
	}

	// Unknown email and wrong password produce identical responses.
	var user models.User
	if err := h.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		logger.Warn("login_failed_user_not_found", map[string]interface{}{
			"email": req.Email,
			"ip":    c.IP(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "Invalid credentials")
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		logger.Warn("login_failed_invalid_password", map[string]interface{}{
			"user_id": user.ID.String(),
			"ip":      c.IP(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "Invalid credentials")
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed generating token")
	}

	logger.Info("user_login", map[string]interface{}{
		"user_id": user.ID.String(),
		"ip":      c.IP(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}
