package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/inneranimal/rescue-api/internal/ai"
	"github.com/inneranimal/rescue-api/internal/models"
	"github.com/inneranimal/rescue-api/internal/services"
)

// stubChatClient returns a fixed completion
type stubChatClient struct {
	reply string
	fail  bool
}

func (s *stubChatClient) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	if s.fail {
		return "", fmt.Errorf("provider unavailable")
	}
	return s.reply, nil
}

// withUser injects an authenticated user id, standing in for the auth
// middleware in tests
func withUser(userID string) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		c.Locals("userEmail", userID+"@example.com")
		return c.Next()
	}
}

func TestOpenAIProxyValidation(t *testing.T) {
	app := newTestApp()
	handler := &ChatHandler{OpenAI: &stubChatClient{reply: "hi"}}
	app.Post("/api/openai", handler.OpenAIProxy)

	resp, err := app.Test(postJSON(t, "/api/openai", map[string]interface{}{"messages": []interface{}{}}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestOpenAIProxySuccess(t *testing.T) {
	app := newTestApp()
	handler := &ChatHandler{OpenAI: &stubChatClient{reply: "All good"}}
	app.Post("/api/openai", handler.OpenAIProxy)

	resp, err := app.Test(postJSON(t, "/api/openai", map[string]interface{}{
		"messages": []map[string]string{{"role": "user", "content": "Hi"}},
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["content"] != "All good" {
		t.Errorf("unexpected content: %v", body)
	}
}

func TestSendMessagePersistsTurns(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()

	client := &stubChatClient{reply: "Hello there"}
	handler := &ChatHandler{
		DB:      db,
		Resolve: func(model string) ai.ChatClient { return client },
	}
	app.Post("/api/chat", withUser("user-1"), handler.SendMessage)

	conv, err := services.CreateConversation(db, "user-1", "Chat", "gpt-4")
	if err != nil {
		t.Fatalf("create conversation failed: %v", err)
	}

	resp, err := app.Test(postJSON(t, "/api/chat", map[string]string{
		"conversationId": conv.ID,
		"content":        "Hi",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	aiMsg, ok := body["aiMessage"].(map[string]interface{})
	if !ok || aiMsg["content"] != "Hello there" {
		t.Errorf("unexpected aiMessage: %v", body)
	}

	var count int64
	db.Model(&models.Message{}).Where("conversation_id = ?", conv.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 persisted messages, got %d", count)
	}
}

func TestSendMessageRejectsForeignConversation(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	handler := &ChatHandler{
		DB:      db,
		Resolve: func(model string) ai.ChatClient { return &stubChatClient{} },
	}
	app.Post("/api/chat", withUser("intruder"), handler.SendMessage)

	conv, err := services.CreateConversation(db, "user-1", "Private", "gpt-4")
	if err != nil {
		t.Fatalf("create conversation failed: %v", err)
	}

	resp, err := app.Test(postJSON(t, "/api/chat", map[string]string{
		"conversationId": conv.ID,
		"content":        "Hi",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestConversationRoutes(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	handler := &ChatHandler{DB: db}
	app.Get("/api/conversations", withUser("user-1"), handler.ListConversations)
	app.Post("/api/conversations", withUser("user-1"), handler.CreateConversation)

	resp, err := app.Test(postJSON(t, "/api/conversations", map[string]string{
		"title": "New chat",
		"model": "claude-3",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	listResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/conversations", nil))
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	body := decodeBody(t, listResp)
	conversations, ok := body["conversations"].([]interface{})
	if !ok || len(conversations) != 1 {
		t.Errorf("expected one conversation: %v", body)
	}
}
