package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/domain/repositories"
	"chat-embed.backend/internal/infrastructure/llm"
	"chat-embed.backend/pkg/crypto"
)

// CredentialUsecase manages vendor API keys. Keys are encrypted on the
// way in and only decrypted for dispatch or an explicit owner-gated
// reveal; list and create responses never carry key material.
type CredentialUsecase struct {
	credentialRepo repositories.VendorCredentialRepository
	vault          *crypto.Vault
	registry       *llm.Registry
}

func NewCredentialUsecase(
	credentialRepo repositories.VendorCredentialRepository,
	vault *crypto.Vault,
	registry *llm.Registry,
) *CredentialUsecase {
	return &CredentialUsecase{
		credentialRepo: credentialRepo,
		vault:          vault,
		registry:       registry,
	}
}

// Create encrypts and stores a new vendor key for the user
func (u *CredentialUsecase) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateCredentialInput) (*entities.VendorCredential, error) {
	vendor := entities.Vendor(input.Vendor)
	if !vendor.Valid() {
		return nil, domainerrors.BadRequest("unsupported vendor: " + input.Vendor)
	}

	encrypted, err := u.vault.Encrypt(input.Key)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to encrypt API key")
	}

	credential := &entities.VendorCredential{
		UserID:       userID,
		Vendor:       vendor,
		Name:         input.Name,
		EncryptedKey: encrypted,
	}
	if err := u.credentialRepo.Create(ctx, credential); err != nil {
		return nil, domainerrors.InternalServerError("failed to store credential")
	}
	return credential, nil
}

// List returns the user's stored credentials, key material excluded
func (u *CredentialUsecase) List(ctx context.Context, userID uuid.UUID) ([]*entities.VendorCredential, error) {
	credentials, err := u.credentialRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to list credentials")
	}
	return credentials, nil
}

// RevealValue decrypts and returns the stored key. Only the owning user
// may read it; lookups by other users report not-found rather than
// confirming the credential exists.
func (u *CredentialUsecase) RevealValue(ctx context.Context, userID, credentialID uuid.UUID) (string, error) {
	credential, err := u.getOwned(ctx, userID, credentialID)
	if err != nil {
		return "", err
	}

	key, err := u.vault.Decrypt(credential.EncryptedKey)
	if err != nil {
		return "", domainerrors.InternalServerError("failed to decrypt API key")
	}
	return key, nil
}

// Validate runs a minimal live completion against the vendor to check a
// key before it is stored. The probe itself is not persisted.
func (u *CredentialUsecase) Validate(ctx context.Context, input *entities.ValidateCredentialInput) (*entities.CredentialValidationResult, error) {
	vendor := entities.Vendor(input.Vendor)
	if !vendor.Valid() {
		return nil, domainerrors.BadRequest("unsupported vendor: " + input.Vendor)
	}

	adapter, ok := u.registry.Get(vendor)
	if !ok {
		return nil, domainerrors.InternalServerError("no adapter for vendor " + input.Vendor)
	}

	_, err := adapter.Send(ctx, llm.Request{
		APIKey: input.Key,
		Model:  llm.ProbeModel(vendor),
		Messages: []entities.CanonicalMessage{
			{Role: entities.RoleUser, Content: "Hi"},
		},
		MaxTokens: 1,
	})
	if err != nil {
		return &entities.CredentialValidationResult{IsValid: false, Error: err.Error()}, nil
	}
	return &entities.CredentialValidationResult{IsValid: true}, nil
}

// Delete removes a credential the user owns
func (u *CredentialUsecase) Delete(ctx context.Context, userID, credentialID uuid.UUID) error {
	if _, err := u.getOwned(ctx, userID, credentialID); err != nil {
		return err
	}
	if err := u.credentialRepo.Delete(ctx, credentialID); err != nil {
		return domainerrors.InternalServerError("failed to delete credential")
	}
	return nil
}

func (u *CredentialUsecase) getOwned(ctx context.Context, userID, credentialID uuid.UUID) (*entities.VendorCredential, error) {
	credential, err := u.credentialRepo.GetByID(ctx, credentialID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("credential not found")
		}
		return nil, domainerrors.InternalServerError("failed to load credential")
	}
	if credential.UserID != userID {
		return nil, domainerrors.NotFound("credential not found")
	}
	return credential, nil
}
