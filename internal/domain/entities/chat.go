package entities

import "github.com/google/uuid"

// MessageRole is the closed role set accepted by the gateway. Unknown
// roles are rejected before reaching any vendor adapter.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is in the closed set
func (r MessageRole) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// CanonicalMessage is the provider-agnostic chat message shape
type CanonicalMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// ChatCompletionInput is the payload for the authenticated completion
// endpoint. Stream is accepted but non-functional.
type ChatCompletionInput struct {
	EmbedID   uuid.UUID          `json:"embedId" binding:"required"`
	SessionID string             `json:"sessionId" binding:"required"`
	Messages  []CanonicalMessage `json:"messages" binding:"required,min=1"`
	Stream    bool               `json:"stream"`

	// ClientIP is set by the handler, not the caller
	ClientIP string `json:"-"`
}

// ProxyCompletionInput is the payload for the unauthenticated
// widget-direct endpoint. The vendor key travels in the request body so
// that browser widgets never expose stored credentials cross-origin.
type ProxyCompletionInput struct {
	APIKey      string             `json:"apiKey" binding:"required"`
	ModelName   string             `json:"modelName" binding:"required"`
	Messages    []CanonicalMessage `json:"messages" binding:"required,min=1"`
	Vendor      string             `json:"vendor"`
	Temperature *float64           `json:"temperature"`
	MaxTokens   int                `json:"maxTokens"`
}

// ChatChoice holds one normalized completion choice. Every adapter in
// this system populates exactly one choice at index 0; multi-choice
// vendor responses are truncated to the first choice.
type ChatChoice struct {
	Index        int              `json:"index"`
	Message      CanonicalMessage `json:"message"`
	FinishReason string           `json:"finish_reason"`
}

// ChatCompletionResponse is the canonical (OpenAI-like) response shape
// all adapters normalize to.
type ChatCompletionResponse struct {
	ID             string       `json:"id"`
	Choices        []ChatChoice `json:"choices"`
	UsingFallback  bool         `json:"usingFallback,omitempty"`
	FallbackReason string       `json:"fallbackReason,omitempty"`
}
