package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EmbedID   uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages_session"`
	SessionID string    `gorm:"type:varchar(100);not null;index:idx_chat_messages_session"`
	Role      string    `gorm:"type:varchar(20);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}
