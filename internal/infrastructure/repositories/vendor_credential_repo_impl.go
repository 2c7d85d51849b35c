package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/infrastructure/models"
)

type VendorCredentialRepository struct {
	db *gorm.DB
}

func NewVendorCredentialRepository(db *gorm.DB) *VendorCredentialRepository {
	return &VendorCredentialRepository{db: db}
}

func (r *VendorCredentialRepository) Create(ctx context.Context, credential *entities.VendorCredential) error {
	m := r.toModel(credential)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	credential.ID = m.ID
	credential.CreatedAt = m.CreatedAt
	credential.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *VendorCredentialRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.VendorCredential, error) {
	var m models.VendorCredential
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *VendorCredentialRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.VendorCredential, error) {
	var ms []models.VendorCredential
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.VendorCredential, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *VendorCredentialRepository) Touch(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.VendorCredential{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_used_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *VendorCredentialRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.VendorCredential{}).
		Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *VendorCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.VendorCredential{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *VendorCredentialRepository) toEntity(m *models.VendorCredential) *entities.VendorCredential {
	return &entities.VendorCredential{
		ID:           m.ID,
		UserID:       m.UserID,
		Vendor:       entities.Vendor(m.Vendor),
		Name:         m.Name,
		EncryptedKey: m.EncryptedKey,
		UsageCount:   m.UsageCount,
		LastUsedAt:   m.LastUsedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *VendorCredentialRepository) toModel(e *entities.VendorCredential) *models.VendorCredential {
	return &models.VendorCredential{
		ID:           e.ID,
		UserID:       e.UserID,
		Vendor:       string(e.Vendor),
		Name:         e.Name,
		EncryptedKey: e.EncryptedKey,
		UsageCount:   e.UsageCount,
		LastUsedAt:   e.LastUsedAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
