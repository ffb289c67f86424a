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

// AddReactionController handles reaction placement. A second reaction from the
// same user replaces the first.
type AddReactionController struct {
	add *usecase.AddReactionUseCase
}

func NewAddReactionController(repo repository.ChatRepository, notifier usecase.Notifier) *AddReactionController {
	return &AddReactionController{add: usecase.NewAddReactionUseCase(repo, notifier)}
}

type addReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

func (h *AddReactionController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req addReactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		reactions, err := h.add.Execute(ctx, usecase.AddReactionInput{
			MessageID: c.Param("messageId"),
			UserID:    identity.UserID,
			Emoji:     req.Emoji,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"messageId": c.Param("messageId"),
			"reactions": reactions,
		})
	}
}
