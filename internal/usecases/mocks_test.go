package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"chat-embed.backend/internal/domain/entities"
)

// Mock ChatEmbedRepository
type MockChatEmbedRepository struct {
	mock.Mock
}

func (m *MockChatEmbedRepository) Create(ctx context.Context, embed *entities.ChatEmbed) error {
	args := m.Called(ctx, embed)
	return args.Error(0)
}

func (m *MockChatEmbedRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ChatEmbed, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChatEmbed), args.Error(1)
}

func (m *MockChatEmbedRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.ChatEmbed, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChatEmbed), args.Error(1)
}

func (m *MockChatEmbedRepository) Update(ctx context.Context, embed *entities.ChatEmbed) error {
	args := m.Called(ctx, embed)
	return args.Error(0)
}

func (m *MockChatEmbedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock VendorCredentialRepository
type MockVendorCredentialRepository struct {
	mock.Mock
}

func (m *MockVendorCredentialRepository) Create(ctx context.Context, credential *entities.VendorCredential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockVendorCredentialRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.VendorCredential, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VendorCredential), args.Error(1)
}

func (m *MockVendorCredentialRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.VendorCredential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VendorCredential), args.Error(1)
}

func (m *MockVendorCredentialRepository) Touch(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVendorCredentialRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVendorCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock UsageRecordRepository
type MockUsageRecordRepository struct {
	mock.Mock
}

func (m *MockUsageRecordRepository) Create(ctx context.Context, record *entities.UsageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUsageRecordRepository) CountBySessionSince(ctx context.Context, embedID uuid.UUID, sessionID string, since time.Time) (int64, error) {
	args := m.Called(ctx, embedID, sessionID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUsageRecordRepository) ListByEmbed(ctx context.Context, embedID uuid.UUID, offset, limit int) ([]*entities.UsageRecord, int64, error) {
	args := m.Called(ctx, embedID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.UsageRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockUsageRecordRepository) SummarizeByEmbed(ctx context.Context, embedID uuid.UUID) (*entities.UsageSummary, error) {
	args := m.Called(ctx, embedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UsageSummary), args.Error(1)
}

// Mock ChatMessageRepository
type MockChatMessageRepository struct {
	mock.Mock
}

func (m *MockChatMessageRepository) Create(ctx context.Context, message *entities.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatMessageRepository) ListBySession(ctx context.Context, embedID uuid.UUID, sessionID string) ([]*entities.ChatMessage, error) {
	args := m.Called(ctx, embedID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChatMessage), args.Error(1)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// Mock TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}
