package repositories

import (
	"context"

	"github.com/google/uuid"
	"chat-embed.backend/internal/domain/entities"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entities.ChatMessage) error
	ListBySession(ctx context.Context, embedID uuid.UUID, sessionID string) ([]*entities.ChatMessage, error)
}
