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
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	// anthropicDefaultMaxTokens backs the vendor-required max_tokens
	// field when the embed does not set one.
	anthropicDefaultMaxTokens = 4000
)

// AnthropicAdapter speaks the Anthropic messages API. Anthropic's
// message array accepts only user/assistant roles; system messages are
// extracted and sent as the top-level system field.
type AnthropicAdapter struct {
	baseURL string
	client  *http.Client
}

func NewAnthropicAdapter(client *http.Client) *AnthropicAdapter {
	return &AnthropicAdapter{baseURL: anthropicBaseURL, client: client}
}

// NewAnthropicAdapterWithBaseURL creates an adapter against a custom
// endpoint (used by tests).
func NewAnthropicAdapterWithBaseURL(baseURL string, client *http.Client) *AnthropicAdapter {
	return &AnthropicAdapter{baseURL: baseURL, client: client}
}

func (a *AnthropicAdapter) Vendor() entities.Vendor {
	return entities.VendorAnthropic
}

func (a *AnthropicAdapter) Send(ctx context.Context, req Request) (*entities.ChatCompletionResponse, error) {
	var system string
	messages := make([]map[string]string, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == entities.RoleSystem {
			system = msg.Content
			continue
		}
		messages = append(messages, map[string]string{
			"role":    string(msg.Role),
			"content": msg.Content,
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	payload := map[string]interface{}{
		"model":       req.Model,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
	}
	if system != "" {
		payload["system"] = system
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", req.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &APIError{
			Vendor:     entities.VendorAnthropic,
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("Anthropic request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiErrorFromBody(entities.VendorAnthropic, resp.StatusCode, respBody)
	}

	var result struct {
		ID      string `json:"id"`
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("anthropic: failed to decode response: %w", err)
	}
	if len(result.Content) == 0 {
		return nil, fmt.Errorf("anthropic: empty content in response")
	}

	// Anthropic's flat content/stop_reason wraps into the canonical
	// choices[0] shape.
	return &entities.ChatCompletionResponse{
		ID: result.ID,
		Choices: []entities.ChatChoice{
			{
				Index: 0,
				Message: entities.CanonicalMessage{
					Role:    entities.RoleAssistant,
					Content: result.Content[0].Text,
				},
				FinishReason: result.StopReason,
			},
		},
	}, nil
}
