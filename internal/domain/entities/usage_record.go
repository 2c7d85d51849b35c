package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UsageRecord is one completion attempt, success or failure. Written
// exactly once per attempt so failed calls stay visible in analytics.
type UsageRecord struct {
	ID               uuid.UUID   `json:"id"`
	EmbedID          uuid.UUID   `json:"embedId"`
	TeamID           uuid.UUID   `json:"teamId"`
	SessionID        string      `json:"sessionId"`
	PromptTokens     int         `json:"promptTokens"`
	CompletionTokens int         `json:"completionTokens"`
	TotalTokens      int         `json:"totalTokens"`
	ModelName        string      `json:"modelName"`
	Success          bool        `json:"success"`
	ErrorMessage     null.String `json:"errorMessage,omitempty"`
	ClientIP         string      `json:"clientIp"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// UsageSummary aggregates an embed's usage records
type UsageSummary struct {
	TotalRequests  int64 `json:"totalRequests"`
	FailedRequests int64 `json:"failedRequests"`
	TotalTokens    int64 `json:"totalTokens"`
}
