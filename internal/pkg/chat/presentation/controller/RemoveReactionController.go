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

// RemoveReactionController handles reaction removal. Removing an absent
// reaction still returns success.
type RemoveReactionController struct {
	remove *usecase.RemoveReactionUseCase
}

func NewRemoveReactionController(repo repository.ChatRepository, notifier usecase.Notifier) *RemoveReactionController {
	return &RemoveReactionController{remove: usecase.NewRemoveReactionUseCase(repo, notifier)}
}

func (h *RemoveReactionController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := h.remove.Execute(ctx, usecase.RemoveReactionInput{
			MessageID: c.Param("messageId"),
			UserID:    identity.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
