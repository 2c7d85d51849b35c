package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"chat-embed.backend/internal/domain/entities"
	"chat-embed.backend/internal/infrastructure/models"
)

type UsageRecordRepository struct {
	db *gorm.DB
}

func NewUsageRecordRepository(db *gorm.DB) *UsageRecordRepository {
	return &UsageRecordRepository{db: db}
}

func (r *UsageRecordRepository) Create(ctx context.Context, record *entities.UsageRecord) error {
	m := r.toModel(record)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	record.ID = m.ID
	record.CreatedAt = m.CreatedAt
	return nil
}

func (r *UsageRecordRepository) CountBySessionSince(ctx context.Context, embedID uuid.UUID, sessionID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Where("embed_id = ? AND session_id = ? AND created_at >= ?", embedID, sessionID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UsageRecordRepository) ListByEmbed(ctx context.Context, embedID uuid.UUID, offset, limit int) ([]*entities.UsageRecord, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Where("embed_id = ?", embedID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.UsageRecord
	q := query.Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.UsageRecord, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

func (r *UsageRecordRepository) SummarizeByEmbed(ctx context.Context, embedID uuid.UUID) (*entities.UsageSummary, error) {
	var summary entities.UsageSummary

	err := r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Where("embed_id = ?", embedID).
		Count(&summary.TotalRequests).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Where("embed_id = ? AND success = ?", embedID, false).
		Count(&summary.FailedRequests).Error
	if err != nil {
		return nil, err
	}

	var total struct{ Total int64 }
	err = r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Select("COALESCE(SUM(total_tokens), 0) AS total").
		Where("embed_id = ?", embedID).
		Scan(&total).Error
	if err != nil {
		return nil, err
	}
	summary.TotalTokens = total.Total

	return &summary, nil
}

func (r *UsageRecordRepository) toEntity(m *models.UsageRecord) *entities.UsageRecord {
	return &entities.UsageRecord{
		ID:               m.ID,
		EmbedID:          m.EmbedID,
		TeamID:           m.TeamID,
		SessionID:        m.SessionID,
		PromptTokens:     m.PromptTokens,
		CompletionTokens: m.CompletionTokens,
		TotalTokens:      m.TotalTokens,
		ModelName:        m.ModelName,
		Success:          m.Success,
		ErrorMessage:     m.ErrorMessage,
		ClientIP:         m.ClientIP,
		CreatedAt:        m.CreatedAt,
	}
}

func (r *UsageRecordRepository) toModel(e *entities.UsageRecord) *models.UsageRecord {
	return &models.UsageRecord{
		ID:               e.ID,
		EmbedID:          e.EmbedID,
		TeamID:           e.TeamID,
		SessionID:        e.SessionID,
		PromptTokens:     e.PromptTokens,
		CompletionTokens: e.CompletionTokens,
		TotalTokens:      e.TotalTokens,
		ModelName:        e.ModelName,
		Success:          e.Success,
		ErrorMessage:     e.ErrorMessage,
		ClientIP:         e.ClientIP,
		CreatedAt:        e.CreatedAt,
	}
}
