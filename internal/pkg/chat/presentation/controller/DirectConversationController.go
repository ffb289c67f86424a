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

// DirectConversationController resolves the direct conversation between the
// caller and the user in the path, creating it on first contact.
type DirectConversationController struct {
	resolve *usecase.ResolveDirectConversationUseCase
}

func NewDirectConversationController(repo repository.ChatRepository) *DirectConversationController {
	return &DirectConversationController{resolve: usecase.NewResolveDirectConversationUseCase(repo)}
}

func (h *DirectConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		peerID := c.Param("userId")
		if peerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		conv, err := h.resolve.Execute(ctx, usecase.ResolveDirectConversationInput{
			UserID: identity.UserID,
			PeerID: peerID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, conv)
	}
}
