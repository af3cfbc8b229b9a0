package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/services"
	"github.com/inneranimal/rescue-api/internal/utils"
)

// FormsHandler handles public form submission routes
type FormsHandler struct {
	DB       *gorm.DB
	Notifier services.FormNotifier
}

// SubmitTNRRequest handles POST /api/forms/tnr-request
// @Summary Submit TNR request
// @Description Submit a Trap-Neuter-Return service request
// @Tags Forms
// @Accept json
// @Produce json
// @Param body body services.TNRRequestInput true "TNR request"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ValidationErrorStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /forms/tnr-request [post]
func (h *FormsHandler) SubmitTNRRequest(c *fiber.Ctx) error {
	var input services.TNRRequestInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}

	req, validationErrs, err := services.SubmitTNRRequest(c.Context(), h.DB, h.Notifier, &input)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "submitTNRRequest")
	}
	if len(validationErrs) > 0 {
		return utils.ValidationErrorResponse(c, validationErrs)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "TNR request submitted successfully",
		"id":      req.ID,
	})
}

// SubmitAdoptionApplication handles POST /api/forms/adoption-application
// @Summary Submit adoption application
// @Description Submit an application to adopt an animal
// @Tags Forms
// @Accept json
// @Produce json
// @Param body body services.AdoptionApplicationInput true "Adoption application"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ValidationErrorStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /forms/adoption-application [post]
func (h *FormsHandler) SubmitAdoptionApplication(c *fiber.Ctx) error {
	var input services.AdoptionApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}

	app, validationErrs, err := services.SubmitAdoptionApplication(c.Context(), h.DB, h.Notifier, &input)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "submitAdoptionApplication")
	}
	if len(validationErrs) > 0 {
		return utils.ValidationErrorResponse(c, validationErrs)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Adoption application submitted successfully",
		"id":      app.ID,
	})
}

// SubmitContact handles POST /api/contact
// @Summary Submit contact message
// @Description Submit a contact form message
// @Tags Forms
// @Accept json
// @Produce json
// @Param body body services.ContactInput true "Contact message"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ValidationErrorStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /contact [post]
func (h *FormsHandler) SubmitContact(c *fiber.Ctx) error {
	var input services.ContactInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}

	_, validationErrs, err := services.SubmitContact(c.Context(), h.DB, h.Notifier, &input)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "submitContact")
	}
	if len(validationErrs) > 0 {
		return utils.ValidationErrorResponse(c, validationErrs)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

// GetAnalytics handles GET /api/analytics
// @Summary Form analytics
// @Description Submission and delivery analytics over a trailing window
// @Tags Forms
// @Accept json
// @Produce json
// @Param days query int false "Trailing window in days, default 30"
// @Param form_type query string false "tnr_request or adoption_application"
// @Success 200 {object} services.AnalyticsReport
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /analytics [get]
func (h *FormsHandler) GetAnalytics(c *fiber.Ctx) error {
	report, err := services.GetFormAnalytics(h.DB, c.Query("form_type"), c.QueryInt("days"))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "getAnalytics")
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
