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

// DeleteMessageController handles soft deletes.
type DeleteMessageController struct {
	del *usecase.DeleteMessageUseCase
}

func NewDeleteMessageController(repo repository.ChatRepository, notifier usecase.Notifier) *DeleteMessageController {
	return &DeleteMessageController{del: usecase.NewDeleteMessageUseCase(repo, notifier)}
}

func (h *DeleteMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := h.del.Execute(ctx, usecase.DeleteMessageInput{
			MessageID:   c.Param("messageId"),
			RequesterID: identity.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
