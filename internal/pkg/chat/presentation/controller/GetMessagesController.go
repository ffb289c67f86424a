package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-banter/internal/infrastructure/auth"
	"go-banter/internal/pkg/chat/application/usecase"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesController handles conversation-history fetches. Viewing history
// marks the requester's unread receipts as read as a side effect.
type GetMessagesController struct {
	get *usecase.GetMessagesUseCase
}

func NewGetMessagesController(repo repository.ChatRepository, notifier usecase.Notifier) *GetMessagesController {
	return &GetMessagesController{get: usecase.NewGetMessagesUseCase(repo, notifier)}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msgs, err := h.get.Execute(ctx, usecase.GetMessagesInput{
			ConversationID: conversationID,
			RequesterID:    identity.UserID,
			Limit:          limit,
			Offset:         offset,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	}
}
