package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"chat-embed.backend/internal/domain/entities"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAdapter speaks the Gemini generateContent API. Gemini renames
// the assistant role to "model", wraps content in parts, and has no
// first-class system field: a system prompt is injected as a synthetic
// leading user instruction turn plus a model acknowledgment.
type GeminiAdapter struct {
	baseURL string
	client  *http.Client
}

func NewGeminiAdapter(client *http.Client) *GeminiAdapter {
	return &GeminiAdapter{baseURL: geminiBaseURL, client: client}
}

// NewGeminiAdapterWithBaseURL creates an adapter against a custom
// endpoint (used by tests).
func NewGeminiAdapterWithBaseURL(baseURL string, client *http.Client) *GeminiAdapter {
	return &GeminiAdapter{baseURL: baseURL, client: client}
}

func (a *GeminiAdapter) Vendor() entities.Vendor {
	return entities.VendorGemini
}

type geminiContent struct {
	Role  string `json:"role"`
	Parts []struct {
		Text string `json:"text"`
	} `json:"parts"`
}

func geminiTurn(role, text string) geminiContent {
	c := geminiContent{Role: role}
	c.Parts = append(c.Parts, struct {
		Text string `json:"text"`
	}{Text: text})
	return c
}

func (a *GeminiAdapter) Send(ctx context.Context, req Request) (*entities.ChatCompletionResponse, error) {
	contents := make([]geminiContent, 0, len(req.Messages)+1)
	for _, msg := range req.Messages {
		switch msg.Role {
		case entities.RoleSystem:
			contents = append(contents,
				geminiTurn("user", "System Instructions: "+msg.Content+"\n\nPlease follow these instructions for the rest of the conversation."),
				geminiTurn("model", "Understood. I will follow these instructions."),
			)
		case entities.RoleAssistant:
			contents = append(contents, geminiTurn("model", msg.Content))
		default:
			contents = append(contents, geminiTurn(string(msg.Role), msg.Content))
		}
	}

	generationConfig := map[string]interface{}{
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		generationConfig["maxOutputTokens"] = req.MaxTokens
	}

	payload := map[string]interface{}{
		"contents":         contents,
		"generationConfig": generationConfig,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	model := normalizeGeminiModel(req.Model)
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, model, req.APIKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &APIError{
			Vendor:     entities.VendorGemini,
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("Gemini request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiErrorFromBody(entities.VendorGemini, resp.StatusCode, respBody)
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("gemini: failed to decode response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty candidates in response")
	}

	// Gemini responses carry no id; synthesize one for the canonical
	// envelope.
	return &entities.ChatCompletionResponse{
		ID: "gemini-" + uuid.NewString(),
		Choices: []entities.ChatChoice{
			{
				Index: 0,
				Message: entities.CanonicalMessage{
					Role:    entities.RoleAssistant,
					Content: result.Candidates[0].Content.Parts[0].Text,
				},
				FinishReason: result.Candidates[0].FinishReason,
			},
		},
	}, nil
}

// normalizeGeminiModel rewrites the bare gemini-1.5-pro alias: the
// vendor API requires the -latest suffix for that specific id.
func normalizeGeminiModel(model string) string {
	if model == "gemini-1.5-pro" {
		return "gemini-1.5-pro-latest"
	}
	return model
}
