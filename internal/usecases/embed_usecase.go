package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/domain/repositories"
	"chat-embed.backend/pkg/utils"
)

// EmbedUsage is a page of an embed's usage ledger
type EmbedUsage struct {
	Records []*entities.UsageRecord `json:"records"`
	Meta    utils.PaginationMeta    `json:"meta"`
}

// EmbedUsecase manages chat embeds and their usage analytics. All reads
// and writes are scoped to the caller's team; cross-team lookups report
// not-found.
type EmbedUsecase struct {
	embedRepo      repositories.ChatEmbedRepository
	credentialRepo repositories.VendorCredentialRepository
	usageRepo      repositories.UsageRecordRepository
}

func NewEmbedUsecase(
	embedRepo repositories.ChatEmbedRepository,
	credentialRepo repositories.VendorCredentialRepository,
	usageRepo repositories.UsageRecordRepository,
) *EmbedUsecase {
	return &EmbedUsecase{
		embedRepo:      embedRepo,
		credentialRepo: credentialRepo,
		usageRepo:      usageRepo,
	}
}

// Create creates an embed for the team. New embeds start active.
func (u *EmbedUsecase) Create(ctx context.Context, teamID uuid.UUID, input *entities.CreateEmbedInput) (*entities.ChatEmbed, error) {
	if input.CredentialID != nil {
		if _, err := u.credentialRepo.GetByID(ctx, *input.CredentialID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.BadRequest("credential not found")
			}
			return nil, domainerrors.InternalServerError("failed to check credential")
		}
	}

	embed := &entities.ChatEmbed{
		TeamID:       teamID,
		Name:         input.Name,
		SystemPrompt: input.SystemPrompt,
		CredentialID: input.CredentialID,
		ModelName:    input.ModelName,
		IsActive:     true,
	}
	if input.Settings != nil {
		embed.Settings = *input.Settings
	}

	if err := u.embedRepo.Create(ctx, embed); err != nil {
		return nil, domainerrors.InternalServerError("failed to create embed")
	}
	return embed, nil
}

// List returns the team's embeds
func (u *EmbedUsecase) List(ctx context.Context, teamID uuid.UUID) ([]*entities.ChatEmbed, error) {
	embeds, err := u.embedRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to list embeds")
	}
	return embeds, nil
}

// Get returns one embed belonging to the team
func (u *EmbedUsecase) Get(ctx context.Context, teamID, embedID uuid.UUID) (*entities.ChatEmbed, error) {
	return u.getOwned(ctx, teamID, embedID)
}

// Update applies a partial update to an embed the team owns
func (u *EmbedUsecase) Update(ctx context.Context, teamID, embedID uuid.UUID, input *entities.UpdateEmbedInput) (*entities.ChatEmbed, error) {
	embed, err := u.getOwned(ctx, teamID, embedID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		embed.Name = *input.Name
	}
	if input.SystemPrompt != nil {
		embed.SystemPrompt = *input.SystemPrompt
	}
	if input.CredentialID != nil {
		if _, err := u.credentialRepo.GetByID(ctx, *input.CredentialID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.BadRequest("credential not found")
			}
			return nil, domainerrors.InternalServerError("failed to check credential")
		}
		embed.CredentialID = input.CredentialID
	}
	if input.ModelName != nil {
		embed.ModelName = *input.ModelName
	}
	if input.IsActive != nil {
		embed.IsActive = *input.IsActive
	}
	if input.Settings != nil {
		embed.Settings = *input.Settings
	}

	if err := u.embedRepo.Update(ctx, embed); err != nil {
		return nil, domainerrors.InternalServerError("failed to update embed")
	}
	return embed, nil
}

// Delete removes an embed the team owns
func (u *EmbedUsecase) Delete(ctx context.Context, teamID, embedID uuid.UUID) error {
	if _, err := u.getOwned(ctx, teamID, embedID); err != nil {
		return err
	}
	if err := u.embedRepo.Delete(ctx, embedID); err != nil {
		return domainerrors.InternalServerError("failed to delete embed")
	}
	return nil
}

// ListUsage returns a page of the embed's usage ledger, newest first
func (u *EmbedUsecase) ListUsage(ctx context.Context, teamID, embedID uuid.UUID, page, limit int) (*EmbedUsage, error) {
	if _, err := u.getOwned(ctx, teamID, embedID); err != nil {
		return nil, err
	}

	params := utils.GetPaginationParams(page, limit)
	records, total, err := u.usageRepo.ListByEmbed(ctx, embedID, params.CalculateOffset(), params.Limit)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to list usage")
	}

	return &EmbedUsage{
		Records: records,
		Meta:    utils.CalculateMeta(total, params.Page, params.Limit),
	}, nil
}

// SummarizeUsage aggregates the embed's usage ledger
func (u *EmbedUsecase) SummarizeUsage(ctx context.Context, teamID, embedID uuid.UUID) (*entities.UsageSummary, error) {
	if _, err := u.getOwned(ctx, teamID, embedID); err != nil {
		return nil, err
	}

	summary, err := u.usageRepo.SummarizeByEmbed(ctx, embedID)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to summarize usage")
	}
	return summary, nil
}

func (u *EmbedUsecase) getOwned(ctx context.Context, teamID, embedID uuid.UUID) (*entities.ChatEmbed, error) {
	embed, err := u.embedRepo.GetByID(ctx, embedID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("embed not found")
		}
		return nil, domainerrors.InternalServerError("failed to load embed")
	}
	if embed.TeamID != teamID {
		return nil, domainerrors.NotFound("embed not found")
	}
	return embed, nil
}
