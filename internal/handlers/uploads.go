package handlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/inneranimal/rescue-api/internal/middleware"
	"github.com/inneranimal/rescue-api/internal/storage"
	"github.com/inneranimal/rescue-api/internal/utils"
)

const presignExpiry = time.Hour

// UploadStore is the slice of object storage user uploads need
type UploadStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
}

// UploadHandler handles authenticated user file upload routes
type UploadHandler struct {
	Store UploadStore
}

// UploadFile handles POST /api/uploads
// @Summary Upload file
// @Description Store a file under the caller's prefix and return its URL
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param folder formData string false "Destination folder, defaults to uploads"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /uploads [post]
func (h *UploadHandler) UploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, "No file provided", fiber.StatusBadRequest, "validation.input")
	}
	if header.Size > maxImageSize {
		return utils.ErrorResponse(c,
			fmt.Sprintf("File %s exceeds 10MB limit", header.Filename),
			fiber.StatusBadRequest, "validation.input")
	}

	folder := c.FormValue("folder")
	if folder == "" {
		folder = "uploads"
	}

	file, err := header.Open()
	if err != nil {
		return utils.ErrorResponse(c,
			fmt.Sprintf("Failed to read file %s", header.Filename),
			fiber.StatusBadRequest, "validation.input")
	}
	defer file.Close()

	key := storage.ObjectKey(fmt.Sprintf("%s/%s", middleware.UserID(c), folder), header.Filename)
	url, err := h.Store.Upload(c.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "uploadFile")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"url":     url,
		"key":     key,
	})
}

// SignUpload handles POST /api/uploads/sign
// @Summary Presign upload
// @Description Return a presigned PUT URL for a client-side upload
// @Tags Uploads
// @Accept json
// @Produce json
// @Param body body object true "Filename and content type"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /uploads/sign [post]
func (h *UploadHandler) SignUpload(c *fiber.Ctx) error {
	var body struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
		Folder      string `json:"folder"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}
	if body.Filename == "" {
		return utils.ErrorResponse(c, "filename is required", fiber.StatusBadRequest, "validation.input")
	}
	if body.Folder == "" {
		body.Folder = "uploads"
	}

	key := storage.ObjectKey(fmt.Sprintf("%s/%s", middleware.UserID(c), body.Folder), body.Filename)
	url, err := h.Store.PresignPut(c.Context(), key, body.ContentType, presignExpiry)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "signUpload")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"url": url,
		"key": key,
	})
}
