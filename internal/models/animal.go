package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Animal represents an adoptable animal listed by the rescue
type Animal struct {
	ID                      string  `gorm:"type:char(36);primaryKey" json:"id"`
	Name                    string  `gorm:"size:255;not null" json:"name"`
	Type                    string  `gorm:"size:32;not null;index" json:"type"` // dog or cat
	Breed                   string  `gorm:"size:255" json:"breed"`
	Age                     string  `gorm:"size:64" json:"age"`
	Gender                  string  `gorm:"size:32" json:"gender"`
	Price                   string  `gorm:"size:64" json:"price"`
	Description             string  `gorm:"type:text" json:"description"`
	SpayedNeutered          bool    `gorm:"not null;default:false" json:"spayedNeutered"`
	Vaccinated              bool    `gorm:"not null;default:false" json:"vaccinated"`
	Microchipped            bool    `gorm:"not null;default:false" json:"microchipped"`
	HeartwormStatus         string  `gorm:"size:255" json:"heartwormStatus"`
	HealthNotes             string  `gorm:"type:text" json:"healthNotes"`
	SpecialNote             string  `gorm:"type:text" json:"specialNote"`
	FosterToAdopt           bool    `gorm:"not null;default:false" json:"fosterToAdopt"`
	AvailableForReservation bool    `gorm:"not null;default:false" json:"availableForReservation"`
	Status                  string  `gorm:"size:32;not null;default:available;index" json:"status"` // available, pending, adopted
	ImageURL                *string `gorm:"size:1024" json:"imageUrl"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
	Images                  []AnimalImage `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE" json:"images"`
}

// AnimalImage represents a stored photo belonging to an animal.
// ImageURL on Animal mirrors the URL of the image with IsPrimary set.
type AnimalImage struct {
	ID        string `gorm:"type:char(36);primaryKey" json:"id"`
	AnimalID  string `gorm:"type:char(36);not null;index" json:"animalId"`
	Key       string `gorm:"size:1024;not null" json:"key"`
	URL       string `gorm:"size:1024;not null" json:"url"`
	Filename  string `gorm:"size:512" json:"filename"`
	FileSize  int64  `json:"fileSize"`
	MimeType  string `gorm:"size:128" json:"mimeType"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsPrimary bool   `gorm:"not null;default:false;index" json:"isPrimary"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for Animal
func (Animal) TableName() string {
	return "animals"
}

// TableName overrides the table name for AnimalImage
func (AnimalImage) TableName() string {
	return "animal_images"
}

// BeforeCreate assigns a UUID primary key when none was provided
func (a *Animal) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none was provided
func (i *AnimalImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
