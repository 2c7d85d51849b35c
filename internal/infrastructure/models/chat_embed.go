package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatEmbed struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TeamID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name         string     `gorm:"type:varchar(100);not null"`
	SystemPrompt string     `gorm:"type:text"`
	CredentialID *uuid.UUID `gorm:"type:uuid"`
	ModelName    string     `gorm:"type:varchar(100);not null"`
	IsActive     bool       `gorm:"default:true;not null"`
	Settings     string     `gorm:"type:text;not null"` // EmbedSettings JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Team         Team              `gorm:"foreignKey:TeamID"`
	Credential   *VendorCredential `gorm:"foreignKey:CredentialID"`
}
