package usecases_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/usecases"
)

func newEmbedFixture() (*MockChatEmbedRepository, *MockVendorCredentialRepository, *MockUsageRecordRepository, *usecases.EmbedUsecase) {
	embedRepo := new(MockChatEmbedRepository)
	credentialRepo := new(MockVendorCredentialRepository)
	usageRepo := new(MockUsageRecordRepository)
	return embedRepo, credentialRepo, usageRepo, usecases.NewEmbedUsecase(embedRepo, credentialRepo, usageRepo)
}

func TestEmbedCreate_StartsActive(t *testing.T) {
	embedRepo, credentialRepo, _, uc := newEmbedFixture()
	teamID := uuid.New()
	credentialID := uuid.New()

	credentialRepo.On("GetByID", mock.Anything, credentialID).Return(&entities.VendorCredential{ID: credentialID}, nil)
	embedRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.ChatEmbed")).
		Run(func(args mock.Arguments) { args.Get(1).(*entities.ChatEmbed).ID = uuid.New() }).
		Return(nil)

	embed, err := uc.Create(context.Background(), teamID, &entities.CreateEmbedInput{
		Name:         "support widget",
		ModelName:    "gpt-4o",
		CredentialID: &credentialID,
	})
	require.NoError(t, err)
	require.True(t, embed.IsActive)
	require.Equal(t, teamID, embed.TeamID)
}

func TestEmbedCreate_DanglingCredential(t *testing.T) {
	embedRepo, credentialRepo, _, uc := newEmbedFixture()
	credentialID := uuid.New()
	credentialRepo.On("GetByID", mock.Anything, credentialID).Return(nil, domainerrors.ErrNotFound)

	_, err := uc.Create(context.Background(), uuid.New(), &entities.CreateEmbedInput{
		Name:         "widget",
		ModelName:    "gpt-4o",
		CredentialID: &credentialID,
	})

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusBadRequest, appErr.Status)
	embedRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEmbedUpdate_PartialFields(t *testing.T) {
	embedRepo, _, _, uc := newEmbedFixture()
	teamID := uuid.New()
	embed := &entities.ChatEmbed{ID: uuid.New(), TeamID: teamID, Name: "old", ModelName: "gpt-4o", IsActive: true}

	embedRepo.On("GetByID", mock.Anything, embed.ID).Return(embed, nil)
	embedRepo.On("Update", mock.Anything, mock.AnythingOfType("*entities.ChatEmbed")).Return(nil)

	name := "new name"
	inactive := false
	updated, err := uc.Update(context.Background(), teamID, embed.ID, &entities.UpdateEmbedInput{
		Name:     &name,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	require.Equal(t, "new name", updated.Name)
	require.False(t, updated.IsActive)
	require.Equal(t, "gpt-4o", updated.ModelName) // untouched
}

func TestEmbedOps_CrossTeamLooksLikeNotFound(t *testing.T) {
	embedRepo, _, _, uc := newEmbedFixture()
	embed := &entities.ChatEmbed{ID: uuid.New(), TeamID: uuid.New()}
	embedRepo.On("GetByID", mock.Anything, embed.ID).Return(embed, nil)

	otherTeam := uuid.New()

	_, err := uc.Get(context.Background(), otherTeam, embed.ID)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.Status)

	err = uc.Delete(context.Background(), otherTeam, embed.ID)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.Status)
	embedRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestEmbedListUsage_Pagination(t *testing.T) {
	embedRepo, _, usageRepo, uc := newEmbedFixture()
	teamID := uuid.New()
	embed := &entities.ChatEmbed{ID: uuid.New(), TeamID: teamID}
	embedRepo.On("GetByID", mock.Anything, embed.ID).Return(embed, nil)

	records := []*entities.UsageRecord{{ID: uuid.New()}, {ID: uuid.New()}}
	usageRepo.On("ListByEmbed", mock.Anything, embed.ID, 10, 10).Return(records, int64(25), nil)

	usage, err := uc.ListUsage(context.Background(), teamID, embed.ID, 2, 10)
	require.NoError(t, err)
	require.Len(t, usage.Records, 2)
	require.Equal(t, int64(25), usage.Meta.TotalCount)
	require.Equal(t, 3, usage.Meta.TotalPages)
	require.Equal(t, 2, usage.Meta.Page)
}

func TestEmbedSummarizeUsage(t *testing.T) {
	embedRepo, _, usageRepo, uc := newEmbedFixture()
	teamID := uuid.New()
	embed := &entities.ChatEmbed{ID: uuid.New(), TeamID: teamID}
	embedRepo.On("GetByID", mock.Anything, embed.ID).Return(embed, nil)
	usageRepo.On("SummarizeByEmbed", mock.Anything, embed.ID).
		Return(&entities.UsageSummary{TotalRequests: 10, FailedRequests: 2, TotalTokens: 4200}, nil)

	summary, err := uc.SummarizeUsage(context.Background(), teamID, embed.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), summary.TotalRequests)
	require.Equal(t, int64(2), summary.FailedRequests)
	require.Equal(t, int64(4200), summary.TotalTokens)
}
