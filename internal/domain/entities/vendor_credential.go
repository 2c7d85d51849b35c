package entities

import (
	"time"

	"github.com/google/uuid"
)

// Vendor identifies an external LLM provider
type Vendor string

const (
	VendorOpenAI    Vendor = "openai"
	VendorAnthropic Vendor = "anthropic"
	VendorGemini    Vendor = "gemini"
	VendorGrok      Vendor = "grok"
)

// Valid reports whether the vendor tag is one of the supported providers
func (v Vendor) Valid() bool {
	switch v {
	case VendorOpenAI, VendorAnthropic, VendorGemini, VendorGrok:
		return true
	}
	return false
}

// VendorCredential stores a vendor API key at rest. EncryptedKey is the
// vault envelope blob; the plaintext key exists only transiently during
// encryption and dispatch and is never logged or serialized.
type VendorCredential struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"userId"`
	Vendor       Vendor     `json:"vendor"`
	Name         string     `json:"name"`
	EncryptedKey string     `json:"-"`
	UsageCount   int64      `json:"usageCount"`
	LastUsedAt   *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateCredentialInput is the payload for storing a new vendor key
type CreateCredentialInput struct {
	Name   string `json:"name" binding:"required"`
	Key    string `json:"key" binding:"required"`
	Vendor string `json:"vendor" binding:"required"`
}

// ValidateCredentialInput is the payload for a live key probe
type ValidateCredentialInput struct {
	Key    string `json:"key" binding:"required"`
	Vendor string `json:"vendor" binding:"required"`
}

// CredentialValidationResult is the outcome of a live key probe
type CredentialValidationResult struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}
