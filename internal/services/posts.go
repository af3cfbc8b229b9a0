package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/models"
)

// ListPosts returns top-level posts newest first; replies are excluded
func ListPosts(db *gorm.DB) ([]models.Post, error) {
	var posts []models.Post
	err := db.Where("parent_id IS NULL").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CreatePost publishes a post or, when parentID is set, a reply
func CreatePost(db *gorm.DB, userID, title, content string, parentID *string) (*models.Post, error) {
	post := models.Post{
		UserID:   userID,
		ParentID: parentID,
		Title:    title,
		Content:  content,
	}
	if err := db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &post, nil
}

// ListVideoRooms returns rooms currently marked active
func ListVideoRooms(db *gorm.DB) ([]models.VideoRoom, error) {
	var rooms []models.VideoRoom
	err := db.Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list video rooms: %w", err)
	}
	return rooms, nil
}

// CreateVideoRoom opens a room hosted by the caller
func CreateVideoRoom(db *gorm.DB, hostID, roomName string, maxParticipants int) (*models.VideoRoom, error) {
	if maxParticipants <= 0 {
		maxParticipants = 10
	}
	room := models.VideoRoom{
		HostID:          hostID,
		RoomName:        roomName,
		IsActive:        true,
		MaxParticipants: maxParticipants,
	}
	if err := db.Create(&room).Error; err != nil {
		return nil, fmt.Errorf("failed to create video room: %w", err)
	}
	return &room, nil
}
