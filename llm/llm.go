// Package llm wraps the generative completion service consumed by the
// extraction pipeline. The core only needs a single chat operation; vision
// support is the same operation with image payloads attached to messages.
package llm

import "context"

// Role tags for chat messages
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged segment of a chat completion request. Images
// optionally carries raw image bytes for vision-capable models.
type Message struct {
	Role    string
	Content string
	Images  [][]byte
}

// Completer is the completion contract consumed by the extraction adapter.
// Implementations are expected to sample deterministically (temperature 0)
// unless configured otherwise.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
