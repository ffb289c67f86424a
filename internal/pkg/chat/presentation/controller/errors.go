package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "go-banter/internal/pkg/chat/application/domain"
	"go-banter/internal/pkg/chat/application/usecase"
)

// respondError maps domain errors to HTTP status codes. Unknown errors are
// treated as caller mistakes, not server faults; only ErrPersistence is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrConversationNotFound),
		errors.Is(err, chat.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrNotParticipant),
		errors.Is(err, chat.ErrNotOwner),
		errors.Is(err, chat.ErrMessageDeleted):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrInvalidReference):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
