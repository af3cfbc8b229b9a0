package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/ai"
	"github.com/inneranimal/rescue-api/internal/models"
)

// ChatClientResolver picks the provider client for a conversation's model
type ChatClientResolver func(model string) ai.ChatClient

// DefaultChatResolver routes claude models to the Anthropic client and
// everything else to the OpenAI client
func DefaultChatResolver(openaiClient, anthropicClient ai.ChatClient) ChatClientResolver {
	return func(model string) ai.ChatClient {
		if strings.HasPrefix(model, "claude") {
			return anthropicClient
		}
		return openaiClient
	}
}

// ListConversations returns the caller's conversations, newest first
func ListConversations(db *gorm.DB, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// CreateConversation starts a new chat thread for the caller
func CreateConversation(db *gorm.DB, userID, title, model string) (*models.Conversation, error) {
	conv := models.Conversation{
		UserID: userID,
		Title:  title,
		Model:  model,
	}
	if conv.Model == "" {
		conv.Model = "gpt-4"
	}
	if err := db.Create(&conv).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return &conv, nil
}

// ErrNotConversationOwner is returned when a caller addresses a
// conversation that belongs to someone else
var ErrNotConversationOwner = errors.New("conversation does not belong to caller")

// SendChatMessage appends the caller's message to a conversation, asks the
// conversation's model for a reply with the full history, and persists both
// turns. The assistant message is only written after a successful completion.
func SendChatMessage(ctx context.Context, db *gorm.DB, resolve ChatClientResolver, userID, conversationID, content string) (*models.Message, *models.Message, error) {
	var conv models.Conversation
	err := db.First(&conv, "id = ?", conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load conversation %s: %w", conversationID, err)
	}
	if conv.UserID != userID {
		return nil, nil, ErrNotConversationOwner
	}

	userMsg := models.Message{
		ConversationID: conversationID,
		Role:           "user",
		Content:        content,
	}
	if err := db.Create(&userMsg).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to save message: %w", err)
	}

	var history []models.Message
	err = db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}

	chatHistory := make([]ai.Message, 0, len(history))
	for _, m := range history {
		chatHistory = append(chatHistory, ai.Message{Role: m.Role, Content: m.Content})
	}

	client := resolve(conv.Model)
	if client == nil {
		return nil, nil, fmt.Errorf("no chat client for model %s", conv.Model)
	}
	reply, err := client.Complete(ctx, chatHistory)
	if err != nil {
		return nil, nil, fmt.Errorf("completion failed: %w", err)
	}

	aiMsg := models.Message{
		ConversationID: conversationID,
		Role:           "assistant",
		Content:        reply,
	}
	if err := db.Create(&aiMsg).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to save reply: %w", err)
	}

	// Touch the conversation so listing stays in recency order
	if err := db.Model(&conv).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to touch conversation: %w", err)
	}

	return &userMsg, &aiMsg, nil
}
