package entities

import (
	"time"

	"github.com/google/uuid"
)

// User represents a team member account
type User struct {
	ID           uuid.UUID `json:"id"`
	TeamID       uuid.UUID `json:"teamId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterInput is the payload for account registration. Registration
// bootstraps a team and its owner user in one step.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	TeamName string `json:"teamName" binding:"required"`
}

// LoginInput is the payload for login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
