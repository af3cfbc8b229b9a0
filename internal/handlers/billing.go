package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v78/webhook"
	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/config"
	"github.com/inneranimal/rescue-api/internal/middleware"
	"github.com/inneranimal/rescue-api/internal/services"
	"github.com/inneranimal/rescue-api/internal/utils"
)

// BillingHandler handles Stripe checkout, portal, and webhook routes
type BillingHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// CreateCheckout handles POST /api/stripe/checkout
// @Summary Create checkout session
// @Description Start a subscription checkout for the authenticated user
// @Tags Billing
// @Accept json
// @Produce json
// @Param body body object true "Price selection"
// @Success 200 {object} services.CheckoutResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /stripe/checkout [post]
func (h *BillingHandler) CreateCheckout(c *fiber.Ctx) error {
	var body struct {
		PriceID string `json:"priceId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}
	if body.PriceID == "" {
		return utils.ErrorResponse(c, "priceId is required", fiber.StatusBadRequest, "validation.input")
	}

	result, err := services.CreateCheckoutSession(h.Cfg.AppURL, middleware.UserID(c), middleware.UserEmail(c), body.PriceID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createCheckout")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// CreatePortal handles POST /api/stripe/portal
// @Summary Create billing portal session
// @Description Open the Stripe billing portal for the authenticated user
// @Tags Billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /stripe/portal [post]
func (h *BillingHandler) CreatePortal(c *fiber.Ctx) error {
	url, err := services.CreateBillingPortalSession(h.DB, h.Cfg.AppURL, middleware.UserID(c))
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Profile not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createPortal")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"url": url})
}

// HandleWebhook handles POST /api/stripe/webhook
// @Summary Stripe webhook
// @Description Receive and apply verified Stripe events
// @Tags Billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /stripe/webhook [post]
func (h *BillingHandler) HandleWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return utils.ErrorResponse(c, "Missing Stripe-Signature header", fiber.StatusBadRequest, "stripe.signature")
	}

	event, err := webhook.ConstructEvent(c.Body(), signature, h.Cfg.StripeWebhookSecret)
	if err != nil {
		return utils.ErrorResponse(c, "Webhook signature verification failed", fiber.StatusBadRequest, "stripe.signature")
	}

	if err := services.HandleStripeEvent(h.DB, event); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "stripeWebhook")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}
