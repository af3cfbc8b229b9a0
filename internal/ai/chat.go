// Package ai provides chat completion clients for the supported LLM providers
// behind a common interface.
package ai

import "context"

// Message is a single chat turn sent to a provider
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient produces a completion for a conversation history
type ChatClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
