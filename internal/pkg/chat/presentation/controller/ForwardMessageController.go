package controller

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-banter/internal/infrastructure/auth"
	queueport "go-banter/internal/infrastructure/queue/port"
	"go-banter/internal/pkg/chat/application/task"
	"go-banter/internal/pkg/chat/application/usecase"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// ForwardMessageController re-sends an existing message's content to another
// user through the normal message pipeline.
type ForwardMessageController struct {
	forward *usecase.ForwardMessageUseCase
	q       queueport.Client
}

func NewForwardMessageController(repo repository.ChatRepository, notifier usecase.Notifier, q queueport.Client) *ForwardMessageController {
	send := usecase.NewSendMessageUseCase(repo, notifier)
	return &ForwardMessageController{
		forward: usecase.NewForwardMessageUseCase(repo, send),
		q:       q,
	}
}

type forwardMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
}

func (h *ForwardMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req forwardMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := h.forward.Execute(ctx, usecase.ForwardMessageInput{
			MessageID:   c.Param("messageId"),
			RequesterID: identity.UserID,
			RecipientID: req.RecipientID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		if err := task.EnqueueNotifyMessage(ctx, h.q, result.Message, result.Recipients); err != nil {
			log.Printf("forward message: enqueue notify: %v", err)
		}

		c.JSON(http.StatusCreated, result.Message)
	}
}
