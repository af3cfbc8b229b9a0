package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile mirrors an identity managed by the auth provider.
// The ID is the provider's user id, not generated locally.
type Profile struct {
	ID                 string `gorm:"type:char(36);primaryKey" json:"id"`
	Email              string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FullName           string `gorm:"size:255" json:"fullName"`
	AvatarURL          string `gorm:"size:1024" json:"avatarUrl"`
	Role               string `gorm:"size:32;not null;default:user" json:"role"` // user or admin
	Company            string `gorm:"size:255" json:"company"`
	StripeCustomerID   string `gorm:"size:255;index" json:"-"`
	SubscriptionStatus string `gorm:"size:32;not null;default:inactive" json:"subscriptionStatus"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Conversation is a user-owned AI chat thread
type Conversation struct {
	ID        string `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string `gorm:"type:char(36);not null;index" json:"userId"`
	Title     string `gorm:"size:255" json:"title"`
	Model     string `gorm:"size:32;not null;default:gpt-4" json:"model"` // gpt-4 or claude-3
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// Message is a single chat turn within a conversation
type Message struct {
	ID             string `gorm:"type:char(36);primaryKey" json:"id"`
	ConversationID string `gorm:"type:char(36);not null;index" json:"conversationId"`
	Role           string `gorm:"size:32;not null" json:"role"` // user, assistant, system
	Content        string `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time
}

// Post is a community post; replies carry the parent post's id
type Post struct {
	ID        string  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string  `gorm:"type:char(36);not null;index" json:"userId"`
	ParentID  *string `gorm:"type:char(36);index" json:"parentId"`
	Title     string  `gorm:"size:255" json:"title"`
	Content   string  `gorm:"type:text;not null" json:"content"`
	Likes     int     `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VideoRoom is a placeholder video-room record; no RTC semantics are implemented
type VideoRoom struct {
	ID              string `gorm:"type:char(36);primaryKey" json:"id"`
	HostID          string `gorm:"type:char(36);not null;index" json:"hostId"`
	RoomName        string `gorm:"size:255;not null" json:"roomName"`
	IsActive        bool   `gorm:"not null;default:true" json:"isActive"`
	MaxParticipants int    `gorm:"not null;default:10" json:"maxParticipants"`
	CreatedAt       time.Time
}

// Subscription tracks the billing state synced from the payment provider
type Subscription struct {
	ID                   string `gorm:"type:char(36);primaryKey" json:"id"`
	UserID               string `gorm:"type:char(36);not null;uniqueIndex" json:"userId"`
	StripeCustomerID     string `gorm:"size:255" json:"-"`
	StripeSubscriptionID string `gorm:"size:255" json:"-"`
	PlanName             string `gorm:"size:255" json:"planName"`
	Status               string `gorm:"size:32;not null;default:inactive" json:"status"` // active or inactive
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName overrides the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// TableName overrides the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// TableName overrides the table name for Message
func (Message) TableName() string {
	return "messages"
}

// TableName overrides the table name for Post
func (Post) TableName() string {
	return "posts"
}

// TableName overrides the table name for VideoRoom
func (VideoRoom) TableName() string {
	return "video_rooms"
}

// TableName overrides the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}

// BeforeCreate assigns a UUID primary key when none was provided
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none was provided
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none was provided
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none was provided
func (v *VideoRoom) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none was provided
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
