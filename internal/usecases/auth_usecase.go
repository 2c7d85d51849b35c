package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/domain/repositories"
	"chat-embed.backend/pkg/crypto"
	"chat-embed.backend/pkg/jwt"
)

// AuthResponse bundles tokens with the authenticated user
type AuthResponse struct {
	User   *entities.User `json:"user"`
	Tokens *jwt.TokenPair `json:"tokens"`
}

// AuthUsecase handles registration, login, and profile lookup.
// Registration bootstraps a team and its first user in one step.
type AuthUsecase struct {
	userRepo repositories.UserRepository
	teamRepo repositories.TeamRepository
	jwtSvc   *jwt.JWTService
}

func NewAuthUsecase(userRepo repositories.UserRepository, teamRepo repositories.TeamRepository, jwtSvc *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		teamRepo: teamRepo,
		jwtSvc:   jwtSvc,
	}
}

// Register creates a team and its owner account
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if existing, err := u.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, domainerrors.Conflict("email already registered")
	} else if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.InternalServerError("failed to check existing account")
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to hash password")
	}

	team := &entities.Team{Name: input.TeamName}
	if err := u.teamRepo.Create(ctx, team); err != nil {
		return nil, domainerrors.InternalServerError("failed to create team")
	}

	user := &entities.User{
		TeamID:       team.ID,
		Email:        email,
		Name:         input.Name,
		PasswordHash: hash,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, domainerrors.InternalServerError("failed to create user")
	}

	tokens, err := u.jwtSvc.GenerateTokenPair(user.ID, user.TeamID, user.Email)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to generate tokens")
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password report the same error.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid email or password")
		}
		return nil, domainerrors.InternalServerError("failed to load account")
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.Unauthorized("invalid email or password")
	}

	tokens, err := u.jwtSvc.GenerateTokenPair(user.ID, user.TeamID, user.Email)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to generate tokens")
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// GetMe returns the authenticated user's profile
func (u *AuthUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, domainerrors.InternalServerError("failed to load user")
	}
	return user, nil
}
