package handlers

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/services"
	"github.com/inneranimal/rescue-api/internal/utils"
)

const (
	maxImageSize      = 10 << 20 // 10MB
	maxFilesPerUpload = 20
)

// ImageHandler handles animal photo routes
type ImageHandler struct {
	DB    *gorm.DB
	Store services.ObjectStore
}

// UploadImages handles POST /api/animals/:id/images
// @Summary Upload animal images
// @Description Upload one or more photos for an animal
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Animal ID"
// @Param images formData file true "Image files"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /animals/{id}/images [post]
func (h *ImageHandler) UploadImages(c *fiber.Ctx) error {
	animalID := c.Params("id")

	form, err := c.MultipartForm()
	if err != nil {
		return utils.ErrorResponse(c, "Invalid multipart form", fiber.StatusBadRequest, "validation.input")
	}

	var headers []*multipart.FileHeader
	for _, files := range form.File {
		headers = append(headers, files...)
	}
	if len(headers) == 0 {
		return utils.ErrorResponse(c, "No files provided", fiber.StatusBadRequest, "validation.input")
	}
	if len(headers) > maxFilesPerUpload {
		return utils.ErrorResponse(c,
			fmt.Sprintf("Too many files, maximum is %d per upload", maxFilesPerUpload),
			fiber.StatusBadRequest, "validation.input")
	}

	// Validate everything before the first storage write
	for _, header := range headers {
		if header.Size > maxImageSize {
			return utils.ErrorResponse(c,
				fmt.Sprintf("File %s exceeds 10MB limit", header.Filename),
				fiber.StatusBadRequest, "validation.input")
		}
		if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
			return utils.ErrorResponse(c,
				fmt.Sprintf("File %s is not an image", header.Filename),
				fiber.StatusBadRequest, "validation.input")
		}
	}

	files := make([]services.UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return utils.ErrorResponse(c,
				fmt.Sprintf("Failed to read file %s", header.Filename),
				fiber.StatusBadRequest, "validation.input")
		}
		opened = append(opened, file)
		files = append(files, services.UploadFile{
			Filename:    header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		})
	}

	images, err := services.UploadAnimalImages(c.Context(), h.DB, h.Store, animalID, files)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Animal '%s' not found", animalID))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "uploadImages")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"images": images})
}

// ListImages handles GET /api/animals/:id/images
// @Summary List animal images
// @Description List an animal's images, primary first
// @Tags Images
// @Accept json
// @Produce json
// @Param id path string true "Animal ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /animals/{id}/images [get]
func (h *ImageHandler) ListImages(c *fiber.Ctx) error {
	animalID := c.Params("id")

	images, err := services.ListAnimalImages(h.DB, animalID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listImages")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"images": images})
}

// SetPrimaryImage handles PATCH /api/animals/:id/images/:imageId/primary
// @Summary Set primary image
// @Description Mark one of an animal's images as the primary picture
// @Tags Images
// @Accept json
// @Produce json
// @Param id path string true "Animal ID"
// @Param imageId path string true "Image ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /animals/{id}/images/{imageId}/primary [patch]
func (h *ImageHandler) SetPrimaryImage(c *fiber.Ctx) error {
	animalID := c.Params("id")
	imageID := c.Params("imageId")

	image, err := services.SetPrimaryImage(h.DB, animalID, imageID)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Image '%s' not found", imageID))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "setPrimaryImage")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"image": image})
}

// DeleteImage handles DELETE /api/animals/:id/images/:imageId
// @Summary Delete animal image
// @Description Delete an image; a deleted primary promotes the next by order
// @Tags Images
// @Accept json
// @Produce json
// @Param id path string true "Animal ID"
// @Param imageId path string true "Image ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /animals/{id}/images/{imageId} [delete]
func (h *ImageHandler) DeleteImage(c *fiber.Ctx) error {
	animalID := c.Params("id")
	imageID := c.Params("imageId")

	if err := services.DeleteAnimalImage(c.Context(), h.DB, h.Store, animalID, imageID); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Image '%s' not found", imageID))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteImage")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
