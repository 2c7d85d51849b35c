package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/interfaces/http/middleware"
	"chat-embed.backend/internal/interfaces/http/response"
	"chat-embed.backend/internal/usecases"
)

// EmbedService is the usecase surface the embed handler needs
type EmbedService interface {
	Create(ctx context.Context, teamID uuid.UUID, input *entities.CreateEmbedInput) (*entities.ChatEmbed, error)
	List(ctx context.Context, teamID uuid.UUID) ([]*entities.ChatEmbed, error)
	Get(ctx context.Context, teamID, embedID uuid.UUID) (*entities.ChatEmbed, error)
	Update(ctx context.Context, teamID, embedID uuid.UUID, input *entities.UpdateEmbedInput) (*entities.ChatEmbed, error)
	Delete(ctx context.Context, teamID, embedID uuid.UUID) error
	ListUsage(ctx context.Context, teamID, embedID uuid.UUID, page, limit int) (*usecases.EmbedUsage, error)
	SummarizeUsage(ctx context.Context, teamID, embedID uuid.UUID) (*entities.UsageSummary, error)
}

type EmbedHandler struct {
	embeds EmbedService
}

func NewEmbedHandler(embeds EmbedService) *EmbedHandler {
	return &EmbedHandler{embeds: embeds}
}

// Create creates an embed for the caller's team.
// POST /api/v1/embeds
func (h *EmbedHandler) Create(c *gin.Context) {
	teamID, ok := middleware.GetTeamID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	var input entities.CreateEmbedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	embed, err := h.embeds.Create(c.Request.Context(), teamID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"embed": embed})
}

// List returns the team's embeds.
// GET /api/v1/embeds
func (h *EmbedHandler) List(c *gin.Context) {
	teamID, ok := middleware.GetTeamID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	embeds, err := h.embeds.List(c.Request.Context(), teamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"embeds": embeds})
}

// Get returns one embed.
// GET /api/v1/embeds/:id
func (h *EmbedHandler) Get(c *gin.Context) {
	teamID, embedID, ok := h.scope(c)
	if !ok {
		return
	}

	embed, err := h.embeds.Get(c.Request.Context(), teamID, embedID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"embed": embed})
}

// Update applies a partial update.
// PUT /api/v1/embeds/:id
func (h *EmbedHandler) Update(c *gin.Context) {
	teamID, embedID, ok := h.scope(c)
	if !ok {
		return
	}

	var input entities.UpdateEmbedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	embed, err := h.embeds.Update(c.Request.Context(), teamID, embedID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"embed": embed})
}

// Delete removes an embed.
// DELETE /api/v1/embeds/:id
func (h *EmbedHandler) Delete(c *gin.Context) {
	teamID, embedID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.embeds.Delete(c.Request.Context(), teamID, embedID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Embed deleted"})
}

// ListUsage returns a page of the embed's usage ledger.
// GET /api/v1/embeds/:id/usage
func (h *EmbedHandler) ListUsage(c *gin.Context) {
	teamID, embedID, ok := h.scope(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	usage, err := h.embeds.ListUsage(c.Request.Context(), teamID, embedID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, usage)
}

// SummarizeUsage aggregates the embed's usage ledger.
// GET /api/v1/embeds/:id/usage/summary
func (h *EmbedHandler) SummarizeUsage(c *gin.Context) {
	teamID, embedID, ok := h.scope(c)
	if !ok {
		return
	}

	summary, err := h.embeds.SummarizeUsage(c.Request.Context(), teamID, embedID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

func (h *EmbedHandler) scope(c *gin.Context) (teamID, embedID uuid.UUID, ok bool) {
	teamID, authed := middleware.GetTeamID(c)
	if !authed {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return uuid.Nil, uuid.Nil, false
	}

	embedID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid embed ID"))
		return uuid.Nil, uuid.Nil, false
	}
	return teamID, embedID, true
}
