package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// RemoveReactionInput identifies the reaction to remove.
type RemoveReactionInput struct {
	MessageID string
	UserID    string
}

// RemoveReactionUseCase deletes the user's reaction if present. Removing an
// absent reaction is a no-op, not an error, and emits nothing.
type RemoveReactionUseCase struct {
	Repo     repository.ChatRepository
	Notifier Notifier
}

func NewRemoveReactionUseCase(repo repository.ChatRepository, n Notifier) *RemoveReactionUseCase {
	if n == nil {
		n = NopNotifier{}
	}
	return &RemoveReactionUseCase{Repo: repo, Notifier: n}
}

func (uc *RemoveReactionUseCase) Execute(ctx context.Context, in RemoveReactionInput) error {
	if in.MessageID == "" || in.UserID == "" {
		return fmt.Errorf("message_id and user_id are required")
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	removed, err := uc.Repo.DeleteReaction(ctx, in.MessageID, in.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !removed {
		return nil
	}

	uc.Notifier.Emit(conversationRoom(msg.ConversationID), chat.EventReactionRemoved, chat.ReactionRemovedEvent{
		MessageID: in.MessageID,
		UserID:    in.UserID,
	}, "")
	return nil
}
