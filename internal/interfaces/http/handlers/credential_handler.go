package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/interfaces/http/middleware"
	"chat-embed.backend/internal/interfaces/http/response"
)

// CredentialService is the usecase surface the credential handler needs
type CredentialService interface {
	Create(ctx context.Context, userID uuid.UUID, input *entities.CreateCredentialInput) (*entities.VendorCredential, error)
	List(ctx context.Context, userID uuid.UUID) ([]*entities.VendorCredential, error)
	RevealValue(ctx context.Context, userID, credentialID uuid.UUID) (string, error)
	Validate(ctx context.Context, input *entities.ValidateCredentialInput) (*entities.CredentialValidationResult, error)
	Delete(ctx context.Context, userID, credentialID uuid.UUID) error
}

type CredentialHandler struct {
	credentials CredentialService
}

func NewCredentialHandler(credentials CredentialService) *CredentialHandler {
	return &CredentialHandler{credentials: credentials}
}

// Create stores a new vendor key. The response never echoes the key.
// POST /api/v1/keys
func (h *CredentialHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	var input entities.CreateCredentialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	credential, err := h.credentials.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"key": credential})
}

// List returns the user's stored keys, key material excluded.
// GET /api/v1/keys
func (h *CredentialHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	credentials, err := h.credentials.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"keys": credentials})
}

// RevealValue returns the decrypted key to its owner.
// GET /api/v1/keys/:id/value
func (h *CredentialHandler) RevealValue(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid key ID"))
		return
	}

	value, err := h.credentials.RevealValue(c.Request.Context(), userID, credentialID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"value": value})
}

// Validate runs a live probe against the vendor without storing the key.
// POST /api/v1/keys/validate
func (h *CredentialHandler) Validate(c *gin.Context) {
	var input entities.ValidateCredentialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.credentials.Validate(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Delete removes a stored key.
// DELETE /api/v1/keys/:id
func (h *CredentialHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid key ID"))
		return
	}

	if err := h.credentials.Delete(c.Request.Context(), userID, credentialID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Key deleted"})
}
