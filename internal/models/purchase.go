package models

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

const (
	AnonymousBuyerName  = "Anonymous Buyer"
	AnonymousBuyerEmail = "anonymous@example.com"
)

// Purchase is a recorded transaction. It is created once and never mutated by
// any exposed operation.
type Purchase struct {
	BaseModel
	BuyerID       *uuid.UUID     `json:"buyerId,omitempty" gorm:"type:uuid;index"`
	BuyerName     string         `json:"buyerName" gorm:"type:varchar(100);not null;default:'Anonymous Buyer'"`
	BuyerEmail    string         `json:"buyerEmail" gorm:"type:varchar(255);not null;default:'anonymous@example.com'"`
	SellerID      uuid.UUID      `json:"sellerId" gorm:"type:uuid;not null;index"`
	ArtworkID     uuid.UUID      `json:"artworkId" gorm:"type:uuid;not null;index"`
	Amount        float64        `json:"amount" gorm:"not null"`
	Status        PurchaseStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod string         `json:"paymentMethod" gorm:"type:varchar(50);not null;default:'credit_card'"`
	TransactionID string         `json:"transactionId" gorm:"type:varchar(100)"`
	PurchaseDate  time.Time      `json:"purchaseDate"`

	Buyer   *UserRef    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID;references:ID"`
	Seller  *UserRef    `json:"seller,omitempty" gorm:"foreignKey:SellerID;references:ID"`
	Artwork *ArtworkRef `json:"artwork,omitempty" gorm:"foreignKey:ArtworkID;references:ID"`
}
