package models

import (
	"time"

	"github.com/google/uuid"
)

type VendorCredential struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Vendor       string    `gorm:"type:varchar(20);not null"`
	Name         string    `gorm:"type:varchar(100);not null"`
	EncryptedKey string    `gorm:"type:text;not null"` // vault envelope, base64
	UsageCount   int64     `gorm:"default:0;not null"`
	LastUsedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	User         User `gorm:"foreignKey:UserID"`
}
