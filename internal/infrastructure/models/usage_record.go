package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type UsageRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EmbedID          uuid.UUID `gorm:"type:uuid;not null;index:idx_usage_records_session"`
	TeamID           uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionID        string    `gorm:"type:varchar(100);not null;index:idx_usage_records_session"`
	PromptTokens     int       `gorm:"not null"`
	CompletionTokens int       `gorm:"not null"`
	TotalTokens      int       `gorm:"not null"`
	ModelName        string    `gorm:"type:varchar(100);not null"`
	Success          bool      `gorm:"not null"`
	ErrorMessage     null.String
	ClientIP         string    `gorm:"type:varchar(45)"`
	CreatedAt        time.Time `gorm:"index"`
}
