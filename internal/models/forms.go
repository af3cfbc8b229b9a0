package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TNRRequest is a Trap-Neuter-Return service request submitted from the
// public site. Rows are append-only; only the notification bookkeeping
// fields are updated after insert.
type TNRRequest struct {
	ID                    string `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName             string `gorm:"size:255;not null" json:"firstName"`
	LastName              string `gorm:"size:255;not null" json:"lastName"`
	Address               string `gorm:"size:512;not null" json:"address"`
	Address2              string `gorm:"size:512" json:"address2"`
	City                  string `gorm:"size:255;not null" json:"city"`
	State                 string `gorm:"size:64;not null" json:"state"`
	ZipCode               string `gorm:"size:16;not null" json:"zipCode"`
	Phone                 string `gorm:"size:32;not null" json:"phone"`
	Email                 string `gorm:"size:255;not null;index" json:"email"`
	HowManyCats           string `gorm:"size:64;not null" json:"howManyCats"`
	AnyInjuredOrSick      string `gorm:"size:255;not null" json:"anyInjuredOrSick"`
	HowLongHadThem        string `gorm:"size:255" json:"howLongHadThem"`
	AreTheyFixed          string `gorm:"size:255" json:"areTheyFixed"`
	AdditionalInformation string `gorm:"type:text" json:"additionalInformation"`

	SubmissionStatus string         `gorm:"size:32;not null;default:received" json:"submissionStatus"`
	AdminEmailSent   bool           `gorm:"not null;default:false" json:"adminEmailSent"`
	UserEmailSent    bool           `gorm:"not null;default:false" json:"userEmailSent"`
	AdminEmailError  string         `gorm:"size:1024" json:"adminEmailError,omitempty"`
	UserEmailError   string         `gorm:"size:1024" json:"userEmailError,omitempty"`
	Payload          datatypes.JSON `gorm:"type:json" json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdoptionApplication is an application to adopt a specific or unspecified animal
type AdoptionApplication struct {
	ID                string `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName         string `gorm:"size:255;not null" json:"firstName"`
	LastName          string `gorm:"size:255;not null" json:"lastName"`
	Email             string `gorm:"size:255;not null;index" json:"email"`
	Phone             string `gorm:"size:32;not null" json:"phone"`
	Address           string `gorm:"size:512;not null" json:"address"`
	City              string `gorm:"size:255;not null" json:"city"`
	State             string `gorm:"size:64;not null" json:"state"`
	ZipCode           string `gorm:"size:16;not null" json:"zipCode"`
	AnimalName        string `gorm:"size:255" json:"animalName"`
	AnimalType        string `gorm:"size:32;not null" json:"animalType"`
	HousingType       string `gorm:"size:64;not null" json:"housingType"`
	OwnOrRent         string `gorm:"size:32;not null" json:"ownOrRent"`
	NumberOfAdults    string `gorm:"size:16;not null" json:"numberOfAdults"`
	NumberOfChildren  string `gorm:"size:16;not null" json:"numberOfChildren"`
	AllAgreeable      string `gorm:"size:32;not null" json:"allAgreeable"`
	CurrentPets       string `gorm:"type:text;not null" json:"currentPets"`
	PreviousPets      string `gorm:"type:text;not null" json:"previousPets"`
	WhyAdopting       string `gorm:"type:text;not null" json:"whyAdopting"`
	PreviousSurrender string `gorm:"size:255;not null" json:"previousSurrender"`

	SubmissionStatus string         `gorm:"size:32;not null;default:received" json:"submissionStatus"`
	AdminEmailSent   bool           `gorm:"not null;default:false" json:"adminEmailSent"`
	UserEmailSent    bool           `gorm:"not null;default:false" json:"userEmailSent"`
	AdminEmailError  string         `gorm:"size:1024" json:"adminEmailError,omitempty"`
	UserEmailError   string         `gorm:"size:1024" json:"userEmailError,omitempty"`
	Payload          datatypes.JSON `gorm:"type:json" json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactSubmission is a message from the SaaS site contact form
type ContactSubmission struct {
	ID        string `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Email     string `gorm:"size:255;not null" json:"email"`
	Company   string `gorm:"size:255" json:"company"`
	Message   string `gorm:"type:text;not null" json:"message"`
	Status    string `gorm:"size:32;not null;default:new" json:"status"` // new, read, responded
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for TNRRequest
func (TNRRequest) TableName() string {
	return "tnr_requests"
}

// TableName overrides the table name for AdoptionApplication
func (AdoptionApplication) TableName() string {
	return "adoption_applications"
}

// TableName overrides the table name for ContactSubmission
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

// BeforeCreate assigns a UUID primary key when none was provided
func (r *TNRRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none was provided
func (a *AdoptionApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none was provided
func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
