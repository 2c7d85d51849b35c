package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"chat-embed.backend/internal/domain/entities"
)

// UsageRecordRepository is the append-only usage ledger. The analytics
// component aggregates it; the gateway writes one record per completion
// attempt and counts records for the sliding-window rate limit.
type UsageRecordRepository interface {
	Create(ctx context.Context, record *entities.UsageRecord) error
	// CountBySessionSince counts records for an (embed, session) pair
	// created at or after the cutoff. Backs the trailing-hour rate limit.
	CountBySessionSince(ctx context.Context, embedID uuid.UUID, sessionID string, since time.Time) (int64, error)
	ListByEmbed(ctx context.Context, embedID uuid.UUID, offset, limit int) ([]*entities.UsageRecord, int64, error)
	SummarizeByEmbed(ctx context.Context, embedID uuid.UUID) (*entities.UsageSummary, error)
}
