package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"chat-embed.backend/internal/domain/entities"
	"chat-embed.backend/internal/infrastructure/models"
)

type ChatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

func (r *ChatMessageRepository) Create(ctx context.Context, message *entities.ChatMessage) error {
	m := &models.ChatMessage{
		ID:        message.ID,
		EmbedID:   message.EmbedID,
		SessionID: message.SessionID,
		Role:      string(message.Role),
		Content:   message.Content,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	message.ID = m.ID
	message.CreatedAt = m.CreatedAt
	return nil
}

func (r *ChatMessageRepository) ListBySession(ctx context.Context, embedID uuid.UUID, sessionID string) ([]*entities.ChatMessage, error) {
	var ms []models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("embed_id = ? AND session_id = ?", embedID, sessionID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.ChatMessage, 0, len(ms))
	for i := range ms {
		items = append(items, &entities.ChatMessage{
			ID:        ms[i].ID,
			EmbedID:   ms[i].EmbedID,
			SessionID: ms[i].SessionID,
			Role:      entities.MessageRole(ms[i].Role),
			Content:   ms[i].Content,
			CreatedAt: ms[i].CreatedAt,
		})
	}
	return items, nil
}
