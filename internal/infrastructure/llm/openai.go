package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"chat-embed.backend/internal/domain/entities"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"
	grokBaseURL   = "https://api.x.ai/v1"
)

// OpenAICompatAdapter speaks the OpenAI chat-completions wire format.
// Grok is wire-compatible and shares this adapter with its own base URL:
// the message array passes through unchanged, system role included.
type OpenAICompatAdapter struct {
	vendor  entities.Vendor
	baseURL string
	client  *http.Client
}

// NewOpenAIAdapter creates the OpenAI adapter
func NewOpenAIAdapter(client *http.Client) *OpenAICompatAdapter {
	return &OpenAICompatAdapter{vendor: entities.VendorOpenAI, baseURL: openAIBaseURL, client: client}
}

// NewGrokAdapter creates the Grok (x.ai) adapter
func NewGrokAdapter(client *http.Client) *OpenAICompatAdapter {
	return &OpenAICompatAdapter{vendor: entities.VendorGrok, baseURL: grokBaseURL, client: client}
}

// NewOpenAICompatAdapter creates an adapter against a custom base URL
// (used by tests).
func NewOpenAICompatAdapter(vendor entities.Vendor, baseURL string, client *http.Client) *OpenAICompatAdapter {
	return &OpenAICompatAdapter{vendor: vendor, baseURL: baseURL, client: client}
}

func (a *OpenAICompatAdapter) Vendor() entities.Vendor {
	return a.vendor
}

func (a *OpenAICompatAdapter) Send(ctx context.Context, req Request) (*entities.ChatCompletionResponse, error) {
	payload := map[string]interface{}{
		"model":       req.Model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", a.vendor, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", a.vendor, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &APIError{
			Vendor:     a.vendor,
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("%s request failed: %v", vendorDisplayName(a.vendor), err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", a.vendor, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiErrorFromBody(a.vendor, resp.StatusCode, respBody)
	}

	var result struct {
		ID      string `json:"id"`
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", a.vendor, err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%s: empty choices in response", a.vendor)
	}

	// Multi-choice responses are truncated to the first choice.
	first := result.Choices[0]
	return &entities.ChatCompletionResponse{
		ID: result.ID,
		Choices: []entities.ChatChoice{
			{
				Index: 0,
				Message: entities.CanonicalMessage{
					Role:    entities.MessageRole(first.Message.Role),
					Content: first.Message.Content,
				},
				FinishReason: first.FinishReason,
			},
		},
	}, nil
}
