package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/models"
	"github.com/inneranimal/rescue-api/internal/services"
	"github.com/inneranimal/rescue-api/internal/utils"
)

// AnimalHandler handles adoption listing routes
type AnimalHandler struct {
	DB    *gorm.DB
	Store services.ObjectStore
}

// ListAnimals handles GET /api/animals
// @Summary List animals
// @Description List adoptable animals filtered by status and type
// @Tags Animals
// @Accept json
// @Produce json
// @Param status query string false "Status filter, defaults to available, 'all' disables"
// @Param type query string false "Animal type filter (dog or cat)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /animals [get]
func (h *AnimalHandler) ListAnimals(c *fiber.Ctx) error {
	animals, err := services.ListAnimals(h.DB, c.Query("status"), c.Query("type"))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listAnimals")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"animals": animals})
}

// GetAnimal handles GET /api/animals/:id
// @Summary Get animal
// @Description Get a single animal with its images, primary first
// @Tags Animals
// @Accept json
// @Produce json
// @Param id path string true "Animal ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /animals/{id} [get]
func (h *AnimalHandler) GetAnimal(c *fiber.Ctx) error {
	id := c.Params("id")

	animal, err := services.GetAnimal(h.DB, id)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Animal '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getAnimal")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"animal": animal})
}

// CreateAnimal handles POST /api/animals
// @Summary Create animal
// @Description Create a new adoption listing
// @Tags Animals
// @Accept json
// @Produce json
// @Param body body models.Animal true "Animal to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /animals [post]
func (h *AnimalHandler) CreateAnimal(c *fiber.Ctx) error {
	var animal models.Animal
	if err := c.BodyParser(&animal); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}
	if animal.Name == "" || animal.Type == "" {
		return utils.ErrorResponse(c, "Name and type are required", fiber.StatusBadRequest, "validation.input")
	}

	if err := services.CreateAnimal(h.DB, &animal); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createAnimal")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"animal": animal})
}

// UpdateAnimal handles PUT /api/animals/:id
// @Summary Update animal
// @Description Apply a full update to an existing animal
// @Tags Animals
// @Accept json
// @Produce json
// @Param id path string true "Animal ID"
// @Param body body models.Animal true "Updated fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /animals/{id} [put]
func (h *AnimalHandler) UpdateAnimal(c *fiber.Ctx) error {
	id := c.Params("id")

	var updates models.Animal
	if err := c.BodyParser(&updates); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}

	animal, err := services.UpdateAnimal(h.DB, id, &updates)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Animal '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateAnimal")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"animal": animal})
}

// DeleteAnimal handles DELETE /api/animals/:id
// @Summary Delete animal
// @Description Delete an animal, its image records, and stored objects
// @Tags Animals
// @Accept json
// @Produce json
// @Param id path string true "Animal ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /animals/{id} [delete]
func (h *AnimalHandler) DeleteAnimal(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := services.DeleteAnimal(c.Context(), h.DB, h.Store, id); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Animal '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteAnimal")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
