package controller

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-banter/internal/infrastructure/auth"
	queueport "go-banter/internal/infrastructure/queue/port"
	chat "go-banter/internal/pkg/chat/application/domain"
	"go-banter/internal/pkg/chat/application/task"
	"go-banter/internal/pkg/chat/application/usecase"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// SendMessageController handles the send-message endpoint only (one controller
// per endpoint). The message commits and fans out synchronously; only the
// push-notification trigger goes through the queue.
type SendMessageController struct {
	send *usecase.SendMessageUseCase
	q    queueport.Client
}

func NewSendMessageController(repo repository.ChatRepository, notifier usecase.Notifier, q queueport.Client) *SendMessageController {
	return &SendMessageController{
		send: usecase.NewSendMessageUseCase(repo, notifier),
		q:    q,
	}
}

// sendMessageRequest is the DTO for the HTTP request body. Exactly one of
// conversationId or recipientId must be set.
type sendMessageRequest struct {
	ConversationID string  `json:"conversationId"`
	RecipientID    string  `json:"recipientId"`
	Content        string  `json:"content" binding:"required"`
	MessageType    string  `json:"messageType"`
	ReplyTo        *string `json:"replyTo"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := h.send.Execute(ctx, usecase.SendMessageInput{
			SenderID:       identity.UserID,
			ConversationID: req.ConversationID,
			RecipientID:    req.RecipientID,
			Body:           req.Content,
			MsgType:        chat.MessageType(req.MessageType),
			ReplyTo:        req.ReplyTo,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		// Message is durable already; a failed enqueue only costs the push.
		if err := task.EnqueueNotifyMessage(ctx, h.q, result.Message, result.Recipients); err != nil {
			log.Printf("send message: enqueue notify: %v", err)
		}

		c.JSON(http.StatusCreated, result.Message)
	}
}
