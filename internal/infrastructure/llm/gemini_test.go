package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-embed.backend/internal/domain/entities"
)

func TestGeminiAdapter_RoleAndSystemMapping(t *testing.T) {
	var gotURL string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "Gemini says hi"}]}, "finishReason": "STOP"}
			]
		}`))
	}))
	defer srv.Close()

	adapter := NewGeminiAdapterWithBaseURL(srv.URL, srv.Client())
	resp, err := adapter.Send(context.Background(), Request{
		APIKey: "AIzaTest",
		Model:  "gemini-1.5-flash",
		Messages: []entities.CanonicalMessage{
			{Role: entities.RoleSystem, Content: "be nice"},
			{Role: entities.RoleUser, Content: "hi"},
			{Role: entities.RoleAssistant, Content: "hello"},
		},
		Temperature: 0.9,
		MaxTokens:   128,
	})
	require.NoError(t, err)

	// key travels as a query parameter, not a header
	require.Contains(t, gotURL, "/models/gemini-1.5-flash:generateContent")
	require.Contains(t, gotURL, "key=AIzaTest")

	contents := gotBody["contents"].([]interface{})
	// system prompt expands into an instruction turn plus an ack turn
	require.Len(t, contents, 4)

	first := contents[0].(map[string]interface{})
	require.Equal(t, "user", first["role"])
	firstText := first["parts"].([]interface{})[0].(map[string]interface{})["text"].(string)
	require.True(t, strings.HasPrefix(firstText, "System Instructions: be nice"))

	ack := contents[1].(map[string]interface{})
	require.Equal(t, "model", ack["role"])

	// assistant renames to model
	last := contents[3].(map[string]interface{})
	require.Equal(t, "model", last["role"])

	genConfig := gotBody["generationConfig"].(map[string]interface{})
	require.Equal(t, float64(128), genConfig["maxOutputTokens"])

	require.True(t, strings.HasPrefix(resp.ID, "gemini-"))
	require.Equal(t, "Gemini says hi", resp.Choices[0].Message.Content)
	require.Equal(t, entities.RoleAssistant, resp.Choices[0].Message.Role)
	require.Equal(t, "STOP", resp.Choices[0].FinishReason)
}

func TestGeminiAdapter_ModelAliasRewrite(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	adapter := NewGeminiAdapterWithBaseURL(srv.URL, srv.Client())
	_, err := adapter.Send(context.Background(), Request{
		APIKey:   "AIzaTest",
		Model:    "gemini-1.5-pro",
		Messages: []entities.CanonicalMessage{{Role: entities.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	require.Contains(t, gotURL, "gemini-1.5-pro-latest:generateContent")
}

func TestNormalizeGeminiModel(t *testing.T) {
	require.Equal(t, "gemini-1.5-pro-latest", normalizeGeminiModel("gemini-1.5-pro"))
	require.Equal(t, "gemini-1.5-flash", normalizeGeminiModel("gemini-1.5-flash"))
	require.Equal(t, "gemini-1.5-pro-latest", normalizeGeminiModel("gemini-1.5-pro-latest"))
}

func TestGeminiAdapter_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	adapter := NewGeminiAdapterWithBaseURL(srv.URL, srv.Client())
	_, err := adapter.Send(context.Background(), Request{
		APIKey:   "AIzaTest",
		Model:    "gemini-1.5-flash",
		Messages: []entities.CanonicalMessage{{Role: entities.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
}
