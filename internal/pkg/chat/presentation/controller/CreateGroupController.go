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

// CreateGroupController creates a group conversation with the caller as admin.
type CreateGroupController struct {
	create *usecase.CreateGroupConversationUseCase
}

func NewCreateGroupController(repo repository.ChatRepository, notifier usecase.Notifier) *CreateGroupController {
	return &CreateGroupController{create: usecase.NewCreateGroupConversationUseCase(repo, notifier)}
}

type createGroupRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"memberIds" binding:"required"`
}

func (h *CreateGroupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req createGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		conv, err := h.create.Execute(ctx, usecase.CreateGroupConversationInput{
			CreatorID: identity.UserID,
			Name:      req.Name,
			MemberIDs: req.MemberIDs,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, conv)
	}
}
