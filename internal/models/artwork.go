package models

import "github.com/google/uuid"

type ArtworkStatus string

const (
	ArtworkStatusAvailable ArtworkStatus = "available"
	ArtworkStatusSold      ArtworkStatus = "sold"
)

type Artwork struct {
	BaseModel
	Title       string        `json:"title" gorm:"type:varchar(100);not null"`
	Description string        `json:"description" gorm:"type:text"`
	ImageURL    string        `json:"imageUrl" gorm:"type:text;not null"`
	Category    string        `json:"category" gorm:"type:varchar(100)"`
	Price       float64       `json:"price" gorm:"not null;default:0"`
	ArtistID    uuid.UUID     `json:"artistId" gorm:"type:uuid;not null;index"`
	Medium      string        `json:"medium" gorm:"type:varchar(50)"`
	Size        string        `json:"size" gorm:"type:varchar(50)"`
	Style       string        `json:"style" gorm:"type:varchar(50)"`
	Technique   string        `json:"technique" gorm:"type:varchar(100)"`
	Status      ArtworkStatus `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`

	Artist *UserRef `json:"artist,omitempty" gorm:"foreignKey:ArtistID;references:ID"`
}

// ArtworkRef is the summary expanded onto purchase records.
type ArtworkRef struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	ImageURL string    `json:"imageUrl"`
	Price    float64   `json:"price"`
}

func (ArtworkRef) TableName() string { return "artworks" }
