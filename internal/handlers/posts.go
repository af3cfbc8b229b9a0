package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/middleware"
	"github.com/inneranimal/rescue-api/internal/services"
	"github.com/inneranimal/rescue-api/internal/utils"
)

// PostsHandler handles community post and video room routes
type PostsHandler struct {
	DB *gorm.DB
}

// ListPosts handles GET /api/posts
// @Summary List posts
// @Description List top-level community posts, newest first
// @Tags Posts
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /posts [get]
func (h *PostsHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := services.ListPosts(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listPosts")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"posts": posts})
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Publish a post or a reply when parentId is set
// @Tags Posts
// @Accept json
// @Produce json
// @Param body body object true "Post content"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /posts [post]
func (h *PostsHandler) CreatePost(c *fiber.Ctx) error {
	var body struct {
		Title    string  `json:"title"`
		Content  string  `json:"content"`
		ParentID *string `json:"parentId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}
	if body.Content == "" {
		return utils.ErrorResponse(c, "Content is required", fiber.StatusBadRequest, "validation.input")
	}

	post, err := services.CreatePost(h.DB, middleware.UserID(c), body.Title, body.Content, body.ParentID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createPost")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// ListVideoRooms handles GET /api/video-rooms
// @Summary List video rooms
// @Description List active video rooms
// @Tags Posts
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /video-rooms [get]
func (h *PostsHandler) ListVideoRooms(c *fiber.Ctx) error {
	rooms, err := services.ListVideoRooms(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listVideoRooms")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"rooms": rooms})
}

// CreateVideoRoom handles POST /api/video-rooms
// @Summary Create video room
// @Description Open a new video room hosted by the caller
// @Tags Posts
// @Accept json
// @Produce json
// @Param body body object true "Room settings"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /video-rooms [post]
func (h *PostsHandler) CreateVideoRoom(c *fiber.Ctx) error {
	var body struct {
		RoomName        string `json:"roomName"`
		MaxParticipants int    `json:"maxParticipants"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}
	if body.RoomName == "" {
		return utils.ErrorResponse(c, "Room name is required", fiber.StatusBadRequest, "validation.input")
	}

	room, err := services.CreateVideoRoom(h.DB, middleware.UserID(c), body.RoomName, body.MaxParticipants)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createVideoRoom")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"room": room})
}
