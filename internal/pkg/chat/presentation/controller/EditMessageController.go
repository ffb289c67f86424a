package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-banter/internal/infrastructure/auth"
	"go-banter/internal/pkg/chat/application/usecase"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// EditMessageController handles message content edits.
type EditMessageController struct {
	edit *usecase.EditMessageUseCase
}

func NewEditMessageController(repo repository.ChatRepository, notifier usecase.Notifier) *EditMessageController {
	return &EditMessageController{edit: usecase.NewEditMessageUseCase(repo, notifier)}
}

type editMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *EditMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req editMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := h.edit.Execute(ctx, usecase.EditMessageInput{
			MessageID:   c.Param("messageId"),
			RequesterID: identity.UserID,
			Body:        req.Content,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
