package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/inneranimal/rescue-api/internal/ai"
	"github.com/inneranimal/rescue-api/internal/models"
)

// cannedChatClient replies with a fixed string and records the history it saw
type cannedChatClient struct {
	reply   string
	fail    bool
	history []ai.Message
}

func (c *cannedChatClient) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	c.history = messages
	if c.fail {
		return "", fmt.Errorf("provider unavailable")
	}
	return c.reply, nil
}

func staticResolver(client ai.ChatClient) ChatClientResolver {
	return func(model string) ai.ChatClient { return client }
}

func TestSendChatMessage(t *testing.T) {
	db := newTestDB(t)
	client := &cannedChatClient{reply: "Hello there"}

	conv, err := CreateConversation(db, "user-1", "First chat", "gpt-4")
	if err != nil {
		t.Fatalf("create conversation failed: %v", err)
	}

	userMsg, aiMsg, err := SendChatMessage(context.Background(), db, staticResolver(client), "user-1", conv.ID, "Hi")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if userMsg.Role != "user" || userMsg.Content != "Hi" {
		t.Errorf("user message wrong: %+v", userMsg)
	}
	if aiMsg.Role != "assistant" || aiMsg.Content != "Hello there" {
		t.Errorf("assistant message wrong: %+v", aiMsg)
	}

	if len(client.history) != 1 || client.history[0].Content != "Hi" {
		t.Errorf("provider should see the full history: %v", client.history)
	}

	var count int64
	db.Model(&models.Message{}).Where("conversation_id = ?", conv.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 persisted messages, got %d", count)
	}
}

func TestSendChatMessageOwnership(t *testing.T) {
	db := newTestDB(t)
	conv, err := CreateConversation(db, "user-1", "Private", "gpt-4")
	if err != nil {
		t.Fatalf("create conversation failed: %v", err)
	}

	_, _, err = SendChatMessage(context.Background(), db, staticResolver(&cannedChatClient{}), "user-2", conv.ID, "Hi")
	if !errors.Is(err, ErrNotConversationOwner) {
		t.Fatalf("expected ownership error, got %v", err)
	}

	var count int64
	db.Model(&models.Message{}).Count(&count)
	if count != 0 {
		t.Error("no message should be written on ownership failure")
	}
}

func TestSendChatMessageMissingConversation(t *testing.T) {
	db := newTestDB(t)

	_, _, err := SendChatMessage(context.Background(), db, staticResolver(&cannedChatClient{}), "user-1", "missing", "Hi")
	if err == nil || err.Error() != "not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSendChatMessageProviderFailure(t *testing.T) {
	db := newTestDB(t)
	conv, err := CreateConversation(db, "user-1", "Flaky", "gpt-4")
	if err != nil {
		t.Fatalf("create conversation failed: %v", err)
	}

	_, _, err = SendChatMessage(context.Background(), db, staticResolver(&cannedChatClient{fail: true}), "user-1", conv.ID, "Hi")
	if err == nil {
		t.Fatal("expected provider failure")
	}

	// The user turn is persisted, the assistant turn is not
	var messages []models.Message
	db.Where("conversation_id = ?", conv.ID).Find(&messages)
	if len(messages) != 1 || messages[0].Role != "user" {
		t.Errorf("expected only the user message, got %+v", messages)
	}
}

func TestListConversationsScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	if _, err := CreateConversation(db, "user-1", "Mine", ""); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := CreateConversation(db, "user-2", "Theirs", "claude-3"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	conversations, err := ListConversations(db, "user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(conversations) != 1 || conversations[0].Title != "Mine" {
		t.Errorf("unexpected conversations: %+v", conversations)
	}
	if conversations[0].Model != "gpt-4" {
		t.Errorf("empty model should default to gpt-4, got %s", conversations[0].Model)
	}
}

func TestDefaultChatResolver(t *testing.T) {
	openaiClient := &cannedChatClient{reply: "openai"}
	anthropicClient := &cannedChatClient{reply: "anthropic"}
	resolve := DefaultChatResolver(openaiClient, anthropicClient)

	if resolve("gpt-4") != ai.ChatClient(openaiClient) {
		t.Error("gpt models should resolve to the OpenAI client")
	}
	if resolve("claude-3") != ai.ChatClient(anthropicClient) {
		t.Error("claude models should resolve to the Anthropic client")
	}
}
