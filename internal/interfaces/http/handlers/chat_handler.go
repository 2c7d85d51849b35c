package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-embed.backend/internal/domain/entities"
	domainerrors "chat-embed.backend/internal/domain/errors"
	"chat-embed.backend/internal/interfaces/http/response"
)

// ChatService is the usecase surface the chat handlers need
type ChatService interface {
	Complete(ctx context.Context, input *entities.ChatCompletionInput) (*entities.ChatCompletionResponse, error)
	ProxyComplete(ctx context.Context, input *entities.ProxyCompletionInput) (*entities.ChatCompletionResponse, error)
}

type ChatHandler struct {
	chat ChatService
}

func NewChatHandler(chat ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Complete runs a completion against an embed's stored credential.
// POST /api/v1/chat/completions
func (h *ChatHandler) Complete(c *gin.Context) {
	var input entities.ChatCompletionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	input.ClientIP = c.ClientIP()

	result, err := h.chat.Complete(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ProxyComplete runs a completion with a caller-supplied vendor key.
// Nothing is stored; the endpoint exists so browser widgets never send
// vendor keys cross-origin themselves.
// POST /api/v1/proxy/chat-completion
func (h *ChatHandler) ProxyComplete(c *gin.Context) {
	var input entities.ProxyCompletionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.chat.ProxyComplete(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
