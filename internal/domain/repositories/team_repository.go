package repositories

import (
	"context"

	"github.com/google/uuid"
	"chat-embed.backend/internal/domain/entities"
)

type TeamRepository interface {
	Create(ctx context.Context, team *entities.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Team, error)
}
