package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artmarket/backend/internal/middleware"
	"github.com/artmarket/backend/internal/models"
	"github.com/artmarket/backend/internal/validation"
	"github.com/artmarket/backend/pkg/logger"
	"github.com/artmarket/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchasesHandler struct {
	DB *gorm.DB
}

func NewPurchasesHandler(db *gorm.DB) *PurchasesHandler {
	return &PurchasesHandler{DB: db}
}

var (
	errArtworkNotFound = errors.New("artwork not found")
	errArtworkSold     = errors.New("artwork already sold")
)

// Create records a completed purchase and marks the artwork sold in one
// transaction. The guarded status update keeps a concurrent second buyer from
// creating a duplicate purchase.
func (h *PurchasesHandler) Create(c *fiber.Ctx) error {
	var req validation.PurchaseInput
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}

	if errs := validation.PurchaseCreation(&req); len(errs) > 0 {
		return utils.ValidationError(c, errs)
	}

	artworkID, err := parseUUID(req.ArtworkID)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Invalid artwork ID")
	}

	buyerName := req.BuyerName
	if buyerName == "" {
		buyerName = models.AnonymousBuyerName
	}
	buyerEmail := req.BuyerEmail
	if buyerEmail == "" {
		buyerEmail = models.AnonymousBuyerEmail
	}

	var purchase models.Purchase
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var artwork models.Artwork
		if err := tx.First(&artwork, "id = ?", artworkID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errArtworkNotFound
			}
			return err
		}
		if artwork.Status == models.ArtworkStatusSold {
			return errArtworkSold
		}

		result := tx.Model(&models.Artwork{}).
			Where("id = ? AND status = ?", artworkID, models.ArtworkStatusAvailable).
			Update("status", models.ArtworkStatusSold)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errArtworkSold
		}

		purchase = models.Purchase{
			BuyerName:     buyerName,
			BuyerEmail:    buyerEmail,
			SellerID:      artwork.ArtistID,
			ArtworkID:     artwork.ID,
			Amount:        artwork.Price,
			Status:        models.PurchaseStatusCompleted,
			PaymentMethod: "credit_card",
			TransactionID: newTransactionID(),
			PurchaseDate:  time.Now(),
		}
		return tx.Create(&purchase).Error
	})

	switch {
	case errors.Is(txErr, errArtworkNotFound):
		return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "Artwork not found")
	case errors.Is(txErr, errArtworkSold):
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeConflict, "This artwork is already sold")
	case txErr != nil:
		logger.Error("purchase_create_failed", txErr, map[string]interface{}{
			"artwork_id": artworkID.String(),
		})
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "Error creating purchase")
	}

	var populated models.Purchase
	if err := h.DB.Preload("Seller").Preload("Artwork").First(&populated, "id = ?", purchase.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "failed loading purchase")
	}

	logger.Info("purchase_completed", map[string]interface{}{
		"purchase_id":    populated.ID.String(),
		"artwork_id":     artworkID.String(),
		"amount":         populated.Amount,
		"transaction_id": populated.TransactionID,
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message":  "Purchase completed successfully",
		"purchase": populated,
	})
}

func (h *PurchasesHandler) History(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "unauthorized")
	}

	tx := h.DB.Model(&models.Purchase{}).
		Preload("Buyer").
		Preload("Seller").
		Preload("Artwork").
		Order("created_at DESC")

	switch c.Query("type") {
	case "bought":
		tx = tx.Where("buyer_id = ?", currentUser.ID)
	case "sold":
		tx = tx.Where("seller_id = ?", currentUser.ID)
	default:
		tx = tx.Where("buyer_id = ? OR seller_id = ?", currentUser.ID, currentUser.ID)
	}

	var purchases []models.Purchase
	if err := tx.Find(&purchases).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "Error fetching purchase history")
	}

	return utils.Success(c, fiber.StatusOK, purchases)
}

func (h *PurchasesHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "Invalid purchase ID")
	}

	var purchase models.Purchase
	if err := h.DB.Preload("Buyer").Preload("Seller").Preload("Artwork").First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "Purchase not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeInternalError, "Error fetching purchase")
	}

	isBuyer := purchase.BuyerID != nil && *purchase.BuyerID == currentUser.ID
	if !isBuyer && purchase.SellerID != currentUser.ID {
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "Not authorized to view this purchase")
	}

	return utils.Success(c, fiber.StatusOK, purchase)
}

// newTransactionID builds "TXN_<millis>_<suffix>". Not cryptographically
// unique; collisions are treated as negligible.
func newTransactionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), suffix)
}
