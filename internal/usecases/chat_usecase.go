package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"chat-embed.backend/internal/config"
	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/domain/repositories"
	"chat-embed.backend/internal/infrastructure/llm"
	"chat-embed.backend/internal/infrastructure/metrics"
	"chat-embed.backend/pkg/crypto"
	"chat-embed.backend/pkg/logger"
)

// ChatUsecase orchestrates a completion: embed and credential
// resolution, rate limiting, adapter dispatch, usage accounting, and the
// quota-fallback retry. It also serves the widget proxy path, which
// shares dispatch but persists nothing.
type ChatUsecase struct {
	embedRepo      repositories.ChatEmbedRepository
	credentialRepo repositories.VendorCredentialRepository
	usageRepo      repositories.UsageRecordRepository
	historyRepo    repositories.ChatMessageRepository
	vault          *crypto.Vault
	registry       *llm.Registry
	fallback       config.FallbackConfig
}

func NewChatUsecase(
	embedRepo repositories.ChatEmbedRepository,
	credentialRepo repositories.VendorCredentialRepository,
	usageRepo repositories.UsageRecordRepository,
	historyRepo repositories.ChatMessageRepository,
	vault *crypto.Vault,
	registry *llm.Registry,
	fallback config.FallbackConfig,
) *ChatUsecase {
	return &ChatUsecase{
		embedRepo:      embedRepo,
		credentialRepo: credentialRepo,
		usageRepo:      usageRepo,
		historyRepo:    historyRepo,
		vault:          vault,
		registry:       registry,
		fallback:       fallback,
	}
}

// Complete runs the full completion flow for an embed-backed request.
// Rate-limit rejections are not recorded as usage; every vendor attempt
// (success or failure) is.
func (u *ChatUsecase) Complete(ctx context.Context, input *entities.ChatCompletionInput) (*entities.ChatCompletionResponse, error) {
	if err := validateRoles(input.Messages); err != nil {
		return nil, err
	}

	embed, err := u.embedRepo.GetByID(ctx, input.EmbedID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("embed not found")
		}
		return nil, domainerrors.InternalServerError("failed to load embed")
	}
	if !embed.IsActive {
		return nil, domainerrors.Forbidden("embed is disabled")
	}

	if embed.CredentialID == nil {
		return nil, domainerrors.BadRequest("embed has no API key configured")
	}
	credential, err := u.credentialRepo.GetByID(ctx, *embed.CredentialID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("api key not found")
		}
		return nil, domainerrors.InternalServerError("failed to load api key")
	}

	if policy := embed.Settings.RateLimit; policy.Enabled && policy.MaxRequestsPerHour > 0 {
		// Read-then-decide over stored records; concurrent requests in
		// the same window can both pass.
		count, err := u.usageRepo.CountBySessionSince(ctx, embed.ID, input.SessionID, time.Now().Add(-rateLimitWindow))
		if err != nil {
			return nil, domainerrors.InternalServerError("failed to check rate limit")
		}
		if count >= int64(policy.MaxRequestsPerHour) {
			return nil, domainerrors.RateLimited("Rate limit exceeded. Please try again later.")
		}
	}

	messages := input.Messages
	if embed.SystemPrompt != "" && !hasSystemMessage(messages) {
		messages = append([]entities.CanonicalMessage{
			{Role: entities.RoleSystem, Content: embed.SystemPrompt},
		}, messages...)
	}

	for _, msg := range input.Messages {
		u.writeHistory(ctx, embed.ID, input.SessionID, msg)
	}

	promptTokens := EstimateConversation(messages)

	apiKey, err := u.vault.Decrypt(credential.EncryptedKey)
	if err != nil {
		logger.Error(ctx, "credential decryption failed",
			zap.String("credential_id", credential.ID.String()),
			zap.Error(err))
		return nil, domainerrors.InternalServerError("failed to decrypt API key")
	}

	if err := u.credentialRepo.Touch(ctx, credential.ID); err != nil {
		logger.Warn(ctx, "failed to stamp credential last-used",
			zap.String("credential_id", credential.ID.String()),
			zap.Error(err))
	}

	adapter, ok := u.registry.Get(credential.Vendor)
	if !ok {
		return nil, domainerrors.InternalServerError(fmt.Sprintf("no adapter for vendor %s", credential.Vendor))
	}

	req := llm.Request{
		APIKey:      apiKey,
		Model:       embed.ModelName,
		Messages:    messages,
		Temperature: resolveTemperature(embed.Settings.Temperature),
		MaxTokens:   embed.Settings.MaxTokens,
	}

	resp, err := dispatch(ctx, adapter, req)
	if err == nil {
		u.recordOutcome(ctx, embed, input, resp, req.Model, promptTokens)
		return resp, nil
	}

	u.recordVendorFailure(ctx, embed, input, req.Model, promptTokens, err)

	if llm.IsQuotaError(err) && u.fallback.Enabled() {
		if fbResp, fbErr := u.completeFallback(ctx, embed, input, messages, promptTokens, err); fbErr == nil {
			return fbResp, nil
		}
		// Fallback failures surface the original vendor error, not the
		// fallback's.
	}

	return nil, vendorErrorToAppError(err)
}

// completeFallback retries the completion on the statically configured
// fallback vendor with its plaintext environment key.
func (u *ChatUsecase) completeFallback(
	ctx context.Context,
	embed *entities.ChatEmbed,
	input *entities.ChatCompletionInput,
	messages []entities.CanonicalMessage,
	promptTokens int,
	primaryErr error,
) (*entities.ChatCompletionResponse, error) {
	vendor := entities.Vendor(u.fallback.Vendor)
	adapter, ok := u.registry.Get(vendor)
	if !ok {
		logger.Error(ctx, "fallback vendor has no adapter", zap.String("vendor", u.fallback.Vendor))
		return nil, primaryErr
	}

	logger.Warn(ctx, "primary vendor quota exhausted, retrying on fallback",
		zap.String("embed_id", embed.ID.String()),
		zap.String("fallback_vendor", u.fallback.Vendor),
		zap.String("fallback_model", u.fallback.Model))
	metrics.Global().FallbackActivations.Inc()

	req := llm.Request{
		APIKey:      u.fallback.APIKey,
		Model:       u.fallback.Model,
		Messages:    messages,
		Temperature: resolveTemperature(embed.Settings.Temperature),
		MaxTokens:   embed.Settings.MaxTokens,
	}

	resp, err := dispatch(ctx, adapter, req)
	if err != nil {
		u.recordVendorFailure(ctx, embed, input, req.Model, promptTokens, err)
		return nil, err
	}

	resp.UsingFallback = true
	resp.FallbackReason = primaryErr.Error()
	if len(resp.Choices) > 0 {
		resp.Choices[0].Message.Content += fmt.Sprintf(
			"\n\n_Note: answered by a fallback model (%s) because the configured model is temporarily unavailable._",
			u.fallback.Model)
	}

	u.recordOutcome(ctx, embed, input, resp, req.Model, promptTokens)
	return resp, nil
}

// ProxyComplete serves the widget-direct path: the vendor key arrives in
// the request body, the vendor is autodetected from the key prefix when
// not declared, and nothing is persisted or rate limited.
func (u *ChatUsecase) ProxyComplete(ctx context.Context, input *entities.ProxyCompletionInput) (*entities.ChatCompletionResponse, error) {
	if err := validateRoles(input.Messages); err != nil {
		return nil, err
	}

	vendor, err := llm.DetectVendor(input.APIKey, input.Vendor)
	if err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}

	adapter, ok := u.registry.Get(vendor)
	if !ok {
		return nil, domainerrors.InternalServerError(fmt.Sprintf("no adapter for vendor %s", vendor))
	}

	req := llm.Request{
		APIKey:      input.APIKey,
		Model:       input.ModelName,
		Messages:    input.Messages,
		Temperature: resolveTemperature(input.Temperature),
		MaxTokens:   input.MaxTokens,
	}

	resp, err := dispatch(ctx, adapter, req)
	if err != nil {
		return nil, vendorErrorToAppError(err)
	}
	return resp, nil
}

// dispatch executes one adapter call, recording latency and outcome
// counters around it.
func dispatch(ctx context.Context, adapter llm.Adapter, req llm.Request) (*entities.ChatCompletionResponse, error) {
	m := metrics.Global()
	vendor := string(adapter.Vendor())

	start := time.Now()
	resp, err := adapter.Send(ctx, req)
	m.VendorLatency.WithLabelValues(vendor).Observe(time.Since(start).Seconds())

	if err != nil {
		m.ChatRequests.WithLabelValues(vendor, "error").Inc()
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			m.VendorErrors.WithLabelValues(vendor, strconv.Itoa(apiErr.StatusCode)).Inc()
		}
		return nil, err
	}
	m.ChatRequests.WithLabelValues(vendor, "success").Inc()
	return resp, nil
}

// recordOutcome persists the assistant reply, the success usage record,
// and bumps the credential usage counter. All writes are best-effort.
func (u *ChatUsecase) recordOutcome(
	ctx context.Context,
	embed *entities.ChatEmbed,
	input *entities.ChatCompletionInput,
	resp *entities.ChatCompletionResponse,
	model string,
	promptTokens int,
) {
	completionTokens := 0
	if len(resp.Choices) > 0 {
		u.writeHistory(ctx, embed.ID, input.SessionID, resp.Choices[0].Message)
		completionTokens = EstimateMessage(resp.Choices[0].Message)
	}

	record := &entities.UsageRecord{
		EmbedID:          embed.ID,
		TeamID:           embed.TeamID,
		SessionID:        input.SessionID,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		ModelName:        model,
		Success:          true,
		ClientIP:         input.ClientIP,
	}
	if err := u.usageRepo.Create(ctx, record); err != nil {
		logger.Error(ctx, "failed to write usage record",
			zap.String("embed_id", embed.ID.String()),
			zap.Error(err))
	}

	if embed.CredentialID != nil {
		if err := u.credentialRepo.IncrementUsage(ctx, *embed.CredentialID); err != nil {
			logger.Warn(ctx, "failed to bump credential usage counter",
				zap.String("credential_id", embed.CredentialID.String()),
				zap.Error(err))
		}
	}
}

// recordVendorFailure writes the failed-attempt usage record. Completion
// tokens are zero, so the total equals the prompt estimate.
func (u *ChatUsecase) recordVendorFailure(
	ctx context.Context,
	embed *entities.ChatEmbed,
	input *entities.ChatCompletionInput,
	model string,
	promptTokens int,
	vendorErr error,
) {
	record := &entities.UsageRecord{
		EmbedID:          embed.ID,
		TeamID:           embed.TeamID,
		SessionID:        input.SessionID,
		PromptTokens:     promptTokens,
		CompletionTokens: 0,
		TotalTokens:      promptTokens,
		ModelName:        model,
		Success:          false,
		ErrorMessage:     null.StringFrom(vendorErr.Error()),
		ClientIP:         input.ClientIP,
	}
	if err := u.usageRepo.Create(ctx, record); err != nil {
		logger.Error(ctx, "failed to write failure usage record",
			zap.String("embed_id", embed.ID.String()),
			zap.Error(err))
	}
}

func (u *ChatUsecase) writeHistory(ctx context.Context, embedID uuid.UUID, sessionID string, msg entities.CanonicalMessage) {
	err := u.historyRepo.Create(ctx, &entities.ChatMessage{
		EmbedID:   embedID,
		SessionID: sessionID,
		Role:      msg.Role,
		Content:   msg.Content,
	})
	if err != nil {
		logger.Warn(ctx, "failed to write chat history",
			zap.String("embed_id", embedID.String()),
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

func validateRoles(messages []entities.CanonicalMessage) error {
	for _, m := range messages {
		if !m.Role.Valid() {
			return domainerrors.BadRequest(fmt.Sprintf("invalid message role %q", m.Role))
		}
	}
	return nil
}

func hasSystemMessage(messages []entities.CanonicalMessage) bool {
	for _, m := range messages {
		if m.Role == entities.RoleSystem {
			return true
		}
	}
	return false
}

func resolveTemperature(t *float64) float64 {
	if t != nil {
		return *t
	}
	return defaultTemperature
}

// vendorErrorToAppError translates a typed vendor failure into the HTTP
// error envelope, preserving the vendor's status and message.
func vendorErrorToAppError(err error) error {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return domainerrors.VendorError(apiErr.StatusCode, apiErr.Message, err)
	}
	return domainerrors.VendorError(0, err.Error(), err)
}
