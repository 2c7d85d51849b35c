package entities

import (
	"time"

	"github.com/google/uuid"
)

// Team owns embeds and the usage written against them
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
