package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/infrastructure/models"
)

type ChatEmbedRepository struct {
	db *gorm.DB
}

func NewChatEmbedRepository(db *gorm.DB) *ChatEmbedRepository {
	return &ChatEmbedRepository{db: db}
}

func (r *ChatEmbedRepository) Create(ctx context.Context, embed *entities.ChatEmbed) error {
	m, err := r.toModel(embed)
	if err != nil {
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	embed.ID = m.ID
	embed.CreatedAt = m.CreatedAt
	embed.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ChatEmbedRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ChatEmbed, error) {
	var m models.ChatEmbed
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

func (r *ChatEmbedRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.ChatEmbed, error) {
	var ms []models.ChatEmbed
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.ChatEmbed, 0, len(ms))
	for i := range ms {
		e, err := r.toEntity(&ms[i])
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

func (r *ChatEmbedRepository) Update(ctx context.Context, embed *entities.ChatEmbed) error {
	settings, err := json.Marshal(embed.Settings)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"name":          embed.Name,
		"system_prompt": embed.SystemPrompt,
		"credential_id": embed.CredentialID,
		"model_name":    embed.ModelName,
		"is_active":     embed.IsActive,
		"settings":      string(settings),
		"updated_at":    time.Now(),
	}

	result := r.db.WithContext(ctx).
		Model(&models.ChatEmbed{}).
		Where("id = ?", embed.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ChatEmbedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ChatEmbed{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ChatEmbedRepository) toEntity(m *models.ChatEmbed) (*entities.ChatEmbed, error) {
	var settings entities.EmbedSettings
	if m.Settings != "" {
		if err := json.Unmarshal([]byte(m.Settings), &settings); err != nil {
			return nil, err
		}
	}
	return &entities.ChatEmbed{
		ID:           m.ID,
		TeamID:       m.TeamID,
		Name:         m.Name,
		SystemPrompt: m.SystemPrompt,
		CredentialID: m.CredentialID,
		ModelName:    m.ModelName,
		IsActive:     m.IsActive,
		Settings:     settings,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func (r *ChatEmbedRepository) toModel(e *entities.ChatEmbed) (*models.ChatEmbed, error) {
	settings, err := json.Marshal(e.Settings)
	if err != nil {
		return nil, err
	}
	return &models.ChatEmbed{
		ID:           e.ID,
		TeamID:       e.TeamID,
		Name:         e.Name,
		SystemPrompt: e.SystemPrompt,
		CredentialID: e.CredentialID,
		ModelName:    e.ModelName,
		IsActive:     e.IsActive,
		Settings:     string(settings),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}, nil
}
