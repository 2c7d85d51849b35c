package repositories

import (
	"context"

	"github.com/google/uuid"
	"chat-embed.backend/internal/domain/entities"
)

type VendorCredentialRepository interface {
	Create(ctx context.Context, credential *entities.VendorCredential) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.VendorCredential, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.VendorCredential, error)
	// Touch updates the last-used timestamp. Best-effort from callers.
	Touch(ctx context.Context, id uuid.UUID) error
	// IncrementUsage bumps the approximate usage counter. Concurrent
	// increments may lose updates; the counter is not billing truth.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
