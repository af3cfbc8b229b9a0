package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/config"
	"github.com/inneranimal/rescue-api/internal/services"
)

// HealthHandler handles the service health route
type HealthHandler struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Store services.BucketChecker
}

// HealthCheck handles GET /healthcheck
// @Summary Health check
// @Description Check database, authorizer, and object storage health
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /healthcheck [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB, h.Store)

	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(result)
}
