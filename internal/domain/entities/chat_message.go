package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a per-session history row. History writes are
// best-effort and diagnostic; they never block a completion.
type ChatMessage struct {
	ID        uuid.UUID   `json:"id"`
	EmbedID   uuid.UUID   `json:"embedId"`
	SessionID string      `json:"sessionId"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}
