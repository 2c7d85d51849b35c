// Package llm holds the vendor adapters: each one translates the
// canonical chat shape into a vendor's wire format, executes the call,
// and normalizes the response back. Handlers and usecases dispatch
// through the Registry and never branch on vendor themselves.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chat-embed.backend/internal/domain/entities"
)

// Request is the canonical outbound chat request handed to an adapter.
// APIKey is the decrypted vendor key; it lives only for the duration of
// the call.
type Request struct {
	APIKey      string
	Model       string
	Messages    []entities.CanonicalMessage
	Temperature float64
	MaxTokens   int
}

// Adapter executes a chat completion against one vendor
type Adapter interface {
	Vendor() entities.Vendor
	Send(ctx context.Context, req Request) (*entities.ChatCompletionResponse, error)
}

// APIError is a typed vendor failure carrying the vendor's HTTP status
// and its own error message when present.
type APIError struct {
	Vendor     entities.Vendor
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsQuotaError reports whether a vendor failure is a quota/rate-limit
// signal eligible for the fallback-vendor retry.
func IsQuotaError(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	if apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "exceeded")
}

// Registry maps vendor tags to adapters
type Registry struct {
	adapters map[entities.Vendor]Adapter
}

// NewRegistry builds the full adapter set over a shared HTTP client
func NewRegistry(client *http.Client) *Registry {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	r := &Registry{adapters: make(map[entities.Vendor]Adapter)}
	r.Register(NewOpenAIAdapter(client))
	r.Register(NewGrokAdapter(client))
	r.Register(NewAnthropicAdapter(client))
	r.Register(NewGeminiAdapter(client))
	return r
}

// Register adds an adapter, replacing any existing one for its vendor
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Vendor()] = a
}

// Get returns the adapter for a vendor tag
func (r *Registry) Get(vendor entities.Vendor) (Adapter, bool) {
	a, ok := r.adapters[vendor]
	return a, ok
}

// DetectVendor resolves the vendor for a caller-supplied key. A declared
// vendor tag wins; otherwise the key's string prefix decides. Grok keys
// have no detectable prefix and require an explicit declaration.
func DetectVendor(apiKey, declared string) (entities.Vendor, error) {
	if declared != "" {
		v := entities.Vendor(strings.ToLower(declared))
		if !v.Valid() {
			return "", fmt.Errorf("unknown vendor %q", declared)
		}
		return v, nil
	}
	switch {
	case strings.HasPrefix(apiKey, "sk-ant-"):
		return entities.VendorAnthropic, nil
	case strings.HasPrefix(apiKey, "AIza"):
		return entities.VendorGemini, nil
	case strings.HasPrefix(apiKey, "sk-"):
		return entities.VendorOpenAI, nil
	}
	return "", fmt.Errorf("unable to detect vendor from api key")
}

// ProbeModel returns a low-cost model suitable for a minimal live key
// validation call against a vendor.
func ProbeModel(vendor entities.Vendor) string {
	switch vendor {
	case entities.VendorAnthropic:
		return "claude-3-haiku-20240307"
	case entities.VendorGemini:
		return "gemini-1.5-flash"
	case entities.VendorGrok:
		return "grok-beta"
	default:
		return "gpt-3.5-turbo"
	}
}

// vendorDisplayName is used in generic error strings
func vendorDisplayName(v entities.Vendor) string {
	switch v {
	case entities.VendorOpenAI:
		return "OpenAI"
	case entities.VendorAnthropic:
		return "Anthropic"
	case entities.VendorGemini:
		return "Gemini"
	case entities.VendorGrok:
		return "Grok"
	}
	return string(v)
}

// apiErrorFromBody builds the typed vendor error for a non-2xx response,
// surfacing the vendor's own message when the body carries one. The raw
// body is never swallowed silently: whatever message the vendor sent is
// what the error carries.
func apiErrorFromBody(vendor entities.Vendor, status int, body []byte) *APIError {
	message := ""

	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		message = wrapped.Error.Message
	}

	if message == "" {
		var flat struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &flat); err == nil {
			if flat.Error != "" {
				message = flat.Error
			} else if flat.Message != "" {
				message = flat.Message
			}
		}
	}

	if message == "" {
		message = fmt.Sprintf("%s API error: %d", vendorDisplayName(vendor), status)
	}

	return &APIError{
		Vendor:     vendor,
		StatusCode: status,
		Message:    message,
	}
}
