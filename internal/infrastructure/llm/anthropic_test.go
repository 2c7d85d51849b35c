package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-embed.backend/internal/domain/entities"
)

func TestAnthropicAdapter_SystemExtraction(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.Equal(t, "/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte(`{
			"id": "msg_01abc",
			"content": [{"type": "text", "text": "Hello from Claude"}],
			"stop_reason": "end_turn"
		}`))
	}))
	defer srv.Close()

	adapter := NewAnthropicAdapterWithBaseURL(srv.URL, srv.Client())
	resp, err := adapter.Send(context.Background(), Request{
		APIKey: "sk-ant-test",
		Model:  "claude-3-5-sonnet-20241022",
		Messages: []entities.CanonicalMessage{
			{Role: entities.RoleSystem, Content: "be concise"},
			{Role: entities.RoleUser, Content: "hi"},
			{Role: entities.RoleAssistant, Content: "hello"},
			{Role: entities.RoleUser, Content: "again"},
		},
		Temperature: 0.3,
	})
	require.NoError(t, err)

	require.Equal(t, "sk-ant-test", gotHeaders.Get("x-api-key"))
	require.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	require.Empty(t, gotHeaders.Get("Authorization"))

	// system message lifted out of the array into the top-level field
	require.Equal(t, "be concise", gotBody["system"])
	messages := gotBody["messages"].([]interface{})
	require.Len(t, messages, 3)
	for _, m := range messages {
		role := m.(map[string]interface{})["role"]
		require.NotEqual(t, "system", role)
	}

	// vendor-required max_tokens is defaulted when unset
	require.Equal(t, float64(4000), gotBody["max_tokens"])

	require.Equal(t, "msg_01abc", resp.ID)
	require.Equal(t, entities.RoleAssistant, resp.Choices[0].Message.Role)
	require.Equal(t, "Hello from Claude", resp.Choices[0].Message.Content)
	require.Equal(t, "end_turn", resp.Choices[0].FinishReason)
}

func TestAnthropicAdapter_ExplicitMaxTokens(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"msg_1","content":[{"text":"ok"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	adapter := NewAnthropicAdapterWithBaseURL(srv.URL, srv.Client())
	_, err := adapter.Send(context.Background(), Request{
		APIKey:    "sk-ant-test",
		Model:     "claude-3-haiku-20240307",
		Messages:  []entities.CanonicalMessage{{Role: entities.RoleUser, Content: "hi"}},
		MaxTokens: 512,
	})
	require.NoError(t, err)
	require.Equal(t, float64(512), gotBody["max_tokens"])
	_, hasSystem := gotBody["system"]
	require.False(t, hasSystem)
}

func TestAnthropicAdapter_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"max_tokens: must be greater than 0"}}`))
	}))
	defer srv.Close()

	adapter := NewAnthropicAdapterWithBaseURL(srv.URL, srv.Client())
	_, err := adapter.Send(context.Background(), Request{
		APIKey:   "sk-ant-test",
		Model:    "claude-3-haiku-20240307",
		Messages: []entities.CanonicalMessage{{Role: entities.RoleUser, Content: "hi"}},
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, entities.VendorAnthropic, apiErr.Vendor)
	require.Equal(t, "max_tokens: must be greater than 0", apiErr.Message)
}
