package handlers

import (
	"errors"
	"strconv"

	"github.com/artmarket/backend/internal/config"
	"github.com/artmarket/backend/internal/middleware"
	"github.com/artmarket/backend/internal/models"
	"github.com/artmarket/backend/internal/storage"
	"github.com/artmarket/backend/internal/validation"
	"github.com/artmarket/backend/pkg/logger"
	"github.com/artmarket/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ArtworksHandler struct {
	DB      *gorm.DB
	Storage *storage.Client
	Upload  config.UploadConfig
}

func NewArtworksHandler(db *gorm.DB, store *storage.Client, uploadCfg config.UploadConfig) *ArtworksHandler {
	return &ArtworksHandler{DB: db, Storage: store, Upload: uploadCfg}
}

func (h *ArtworksHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "unauthorized")
	}

	var req validation.ArtworkCreateInput
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}

	fileHeader, err := formImage(c, h.Upload, "image")
	if err != nil {
		return rejectUpload(c, h.Upload, err)
	}

	if errs := validation.ArtworkCreation(&req); len(errs) > 0 {
		return utils.ValidationError(c, errs)
	}

	imageURL := req.ImageURL
	if fileHeader != nil {
		uploaded, err := storeImage(c, h.Storage, fileHeader, "artworks")
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed uploading image")
		}
		imageURL = uploaded
	}
	if imageURL == "" {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Image is required")
	}

	artwork := models.Artwork{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    imageURL,
		Category:    req.Category,
		Price:       req.Price,
		ArtistID:    currentUser.ID,
		Medium:      req.Medium,
		Size:        req.Size,
		Style:       req.Style,
		Technique:   req.Technique,
		Status:      models.ArtworkStatusAvailable,
	}

	if err := h.DB.Create(&artwork).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed creating artwork")
	}

	logger.InfoWithUser(currentUser.ID.String(), "artwork_created", map[string]interface{}{
		"artwork_id": artwork.ID.String(),
		"title":      artwork.Title,
		"price":      artwork.Price,
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message": "Artwork created successfully",
		"artwork": artwork,
	})
}

func (h *ArtworksHandler) List(c *fiber.Ctx) error {
	query := validation.ArtworkQueryInput{
		Artist:    c.Query("artist"),
		Medium:    c.Query("medium"),
		Size:      c.Query("size"),
		Style:     c.Query("style"),
		Technique: c.Query("technique"),
		Price:     c.Query("price"),
	}

	if errs := validation.ArtworkQuery(&query); len(errs) > 0 {
		return utils.ValidationError(c, errs)
	}

	tx := h.DB.Model(&models.Artwork{}).Preload("Artist")

	if query.Artist != "" {
		artistID, err := parseUUID(query.Artist)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Invalid artist ID")
		}
		tx = tx.Where("artist_id = ?", artistID)
	}

	// Case-insensitive exact match; parameterized, so filter values are never
	// interpreted as patterns.
	attributeFilters := map[string]string{
		"medium":    query.Medium,
		"size":      query.Size,
		"style":     query.Style,
		"technique": query.Technique,
	}
	for column, value := range attributeFilters {
		if value != "" {
			tx = tx.Where("LOWER("+column+") = LOWER(?)", value)
		}
	}

	if query.Price != "" {
		price, err := strconv.ParseFloat(query.Price, 64)
		if err != nil || price < 0 {
			return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Price filter must be a positive number")
		}
		tx = tx.Where("price <= ?", price)
	}

	var artworks []models.Artwork
	if err := tx.Find(&artworks).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed listing artworks")
	}

	return utils.Success(c, fiber.StatusOK, artworks)
}

func (h *ArtworksHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Invalid artwork ID")
	}

	var artwork models.Artwork
	if err := h.DB.Preload("Artist").First(&artwork, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "Artwork not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed loading artwork")
	}

	return utils.Success(c, fiber.StatusOK, artwork)
}

func (h *ArtworksHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Invalid artwork ID")
	}

	var artwork models.Artwork
	if err := h.DB.First(&artwork, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "Artwork not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed loading artwork")
	}

	if artwork.ArtistID != currentUser.ID {
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "Not authorized")
	}

	var req validation.ArtworkUpdateInput
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}

	fileHeader, err := formImage(c, h.Upload, "image")
	if err != nil {
		return rejectUpload(c, h.Upload, err)
	}

	if errs := validation.ArtworkUpdate(&req); len(errs) > 0 {
		return utils.ValidationError(c, errs)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	// A newly uploaded file wins over a supplied imageUrl; with neither, the
	// existing image stays.
	if fileHeader != nil {
		uploaded, err := storeImage(c, h.Storage, fileHeader, "artworks")
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed uploading image")
		}
		updates["image_url"] = uploaded
	} else if req.ImageURL != nil && *req.ImageURL != "" {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&artwork).Updates(updates).Error; err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed updating artwork")
		}
	}

	var updated models.Artwork
	if err := h.DB.Preload("Artist").First(&updated, "id = ?", id).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed loading updated artwork")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Artwork updated successfully",
		"artwork": updated,
	})
}

func (h *ArtworksHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Invalid artwork ID")
	}

	var artwork models.Artwork
	if err := h.DB.First(&artwork, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "Artwork not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed loading artwork")
	}

	if artwork.ArtistID != currentUser.ID {
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "Not authorized")
	}

	if err := h.DB.Delete(&artwork).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed deleting artwork")
	}

	logger.InfoWithUser(currentUser.ID.String(), "artwork_deleted", map[string]interface{}{
		"artwork_id": artwork.ID.String(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Artwork deleted successfully"})
}
