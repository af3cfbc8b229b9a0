package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/ai"
	"github.com/inneranimal/rescue-api/internal/middleware"
	"github.com/inneranimal/rescue-api/internal/services"
	"github.com/inneranimal/rescue-api/internal/utils"
)

// ChatHandler handles AI chat and conversation routes
type ChatHandler struct {
	DB        *gorm.DB
	OpenAI    ai.ChatClient
	Anthropic ai.ChatClient
	Resolve   services.ChatClientResolver
}

// proxyRequest is the body for the raw provider proxy routes
type proxyRequest struct {
	Messages []ai.Message `json:"messages"`
}

// OpenAIProxy handles POST /api/openai
// @Summary OpenAI completion
// @Description Proxy a chat completion to OpenAI
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body proxyRequest true "Chat messages"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /openai [post]
func (h *ChatHandler) OpenAIProxy(c *fiber.Ctx) error {
	return h.proxy(c, h.OpenAI, "openaiProxy")
}

// AnthropicProxy handles POST /api/anthropic
// @Summary Anthropic completion
// @Description Proxy a chat completion to Anthropic
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body proxyRequest true "Chat messages"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /anthropic [post]
func (h *ChatHandler) AnthropicProxy(c *fiber.Ctx) error {
	return h.proxy(c, h.Anthropic, "anthropicProxy")
}

func (h *ChatHandler) proxy(c *fiber.Ctx, client ai.ChatClient, errorType string) error {
	var body proxyRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}
	if len(body.Messages) == 0 {
		return utils.ErrorResponse(c, "messages array is required", fiber.StatusBadRequest, "validation.input")
	}

	content, err := client.Complete(c.Context(), body.Messages)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"content": content})
}

// SendMessage handles POST /api/chat
// @Summary Send chat message
// @Description Append a message to a conversation and get the model's reply
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body object true "Conversation message"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /chat [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var body struct {
		ConversationID string `json:"conversationId"`
		Content        string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}
	if body.ConversationID == "" || body.Content == "" {
		return utils.ErrorResponse(c, "conversationId and content are required", fiber.StatusBadRequest, "validation.input")
	}

	userMsg, aiMsg, err := services.SendChatMessage(c.Context(), h.DB, h.Resolve, middleware.UserID(c), body.ConversationID, body.Content)
	if err != nil {
		if errors.Is(err, services.ErrNotConversationOwner) {
			return utils.ErrorResponse(c, "Conversation does not belong to you", fiber.StatusUnauthorized, "chat.ownership")
		}
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Conversation not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "sendMessage")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"userMessage": userMsg,
		"aiMessage":   aiMsg,
	})
}

// ListConversations handles GET /api/conversations
// @Summary List conversations
// @Description List the caller's conversations, most recently active first
// @Tags Chat
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /conversations [get]
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	conversations, err := services.ListConversations(h.DB, middleware.UserID(c))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listConversations")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"conversations": conversations})
}

// CreateConversation handles POST /api/conversations
// @Summary Create conversation
// @Description Start a new chat conversation
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body object true "Conversation title and model"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /conversations [post]
func (h *ChatHandler) CreateConversation(c *fiber.Ctx) error {
	var body struct {
		Title string `json:"title"`
		Model string `json:"model"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
	}

	conv, err := services.CreateConversation(h.DB, middleware.UserID(c), body.Title, body.Model)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createConversation")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"conversation": conv})
}
