package entities

import (
	"time"

	"github.com/google/uuid"
)

// RateLimitPolicy caps requests per session inside a sliding one-hour
// window, recomputed from stored usage records at request time.
type RateLimitPolicy struct {
	Enabled            bool `json:"enabled"`
	MaxRequestsPerHour int  `json:"maxRequestsPerHour"`
}

// EmbedSettings is the per-embed settings bag, persisted as JSON
type EmbedSettings struct {
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"maxTokens,omitempty"`
	RateLimit   RateLimitPolicy `json:"rateLimit"`
}

// ChatEmbed is a configured chat-widget instance belonging to a team,
// bound to one vendor credential and model.
type ChatEmbed struct {
	ID           uuid.UUID     `json:"id"`
	TeamID       uuid.UUID     `json:"teamId"`
	Name         string        `json:"name"`
	SystemPrompt string        `json:"systemPrompt"`
	CredentialID *uuid.UUID    `json:"credentialId,omitempty"`
	ModelName    string        `json:"modelName"`
	IsActive     bool          `json:"isActive"`
	Settings     EmbedSettings `json:"settings"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// CreateEmbedInput is the payload for creating an embed
type CreateEmbedInput struct {
	Name         string         `json:"name" binding:"required"`
	SystemPrompt string         `json:"systemPrompt"`
	CredentialID *uuid.UUID     `json:"credentialId"`
	ModelName    string         `json:"modelName" binding:"required"`
	Settings     *EmbedSettings `json:"settings"`
}

// UpdateEmbedInput is the payload for updating an embed
type UpdateEmbedInput struct {
	Name         *string        `json:"name"`
	SystemPrompt *string        `json:"systemPrompt"`
	CredentialID *uuid.UUID     `json:"credentialId"`
	ModelName    *string        `json:"modelName"`
	IsActive     *bool          `json:"isActive"`
	Settings     *EmbedSettings `json:"settings"`
}
