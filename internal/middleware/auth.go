package middleware

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/inneranimal/rescue-api/internal/config"
	"github.com/inneranimal/rescue-api/internal/services"
	"github.com/inneranimal/rescue-api/internal/types"
)

// AuthAdmin validates that the request has admin role authorization
func AuthAdmin(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, []string{"admin"}, "authorization.admin")
	}
}

// AuthUser validates that the request has user role authorization
func AuthUser(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, []string{"user"}, "authorization.user")
	}
}

// authorize performs the authorization check. The Authorizer client is
// initialized lazily from the first authenticated request.
func authorize(c *fiber.Ctx, cfg *config.Config, roles []string, errorType string) error {
	if !services.IsAuthorizerInitialized() {
		if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
			return &types.CustomError{
				Code:    fiber.StatusServiceUnavailable,
				Message: fmt.Sprintf("Authorization service unavailable: %v", err),
				Type:    errorType,
			}
		}
	}

	// Get session cookie
	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	// Validate session
	data, err := services.ValidateSession(session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	// Set user data in context
	if user, ok := data["user"]; ok {
		c.Locals("user", user)
		id, email := userClaims(user)
		c.Locals("userID", id)
		c.Locals("userEmail", email)
	}

	return c.Next()
}

// userClaims extracts the id and email from the validated user payload.
// Going through JSON keeps this independent of the SDK's struct layout.
func userClaims(user interface{}) (string, string) {
	encoded, err := json.Marshal(user)
	if err != nil {
		return "", ""
	}
	var claims struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(encoded, &claims); err != nil {
		return "", ""
	}
	return claims.ID, claims.Email
}

// UserID returns the authenticated user id stashed by the auth middleware
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}

// UserEmail returns the authenticated user email stashed by the auth middleware
func UserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("userEmail").(string); ok {
		return email
	}
	return ""
}
