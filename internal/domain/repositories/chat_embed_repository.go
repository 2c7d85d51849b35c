package repositories

import (
	"context"

	"github.com/google/uuid"
	"chat-embed.backend/internal/domain/entities"
)

type ChatEmbedRepository interface {
	Create(ctx context.Context, embed *entities.ChatEmbed) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ChatEmbed, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.ChatEmbed, error)
	Update(ctx context.Context, embed *entities.ChatEmbed) error
	Delete(ctx context.Context, id uuid.UUID) error
}
