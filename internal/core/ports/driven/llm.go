// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides language model operations for classification and answering.
//
// Implementations may include:
//   - OpenAI (GPT-4, GPT-4o)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation. Messages may carry images
	// for vision-capable models.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the default model used when options do not override it.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// Model overrides the service default when non-empty.
	Model string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string

	// Images are attached to user messages for vision models.
	Images []Image
}

// Image is an inline image attachment.
type Image struct {
	// MIMEType is e.g. "image/png" or "image/jpeg".
	MIMEType string

	// Data is the raw image bytes.
	Data []byte
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// Model overrides the service default when non-empty.
	Model string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// JSON asks the provider for a JSON response when it supports doing so.
	// Callers must still parse tolerantly.
	JSON bool
}
