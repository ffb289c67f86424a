package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput identifies the message and the requesting user.
type DeleteMessageInput struct {
	MessageID   string
	RequesterID string
}

// DeleteMessageUseCase soft-deletes a message: the stored content is replaced
// by the tombstone and is not recoverable through this core. Sender-only.
// Deleting an already-deleted message is a no-op so retries stay safe.
type DeleteMessageUseCase struct {
	Repo     repository.ChatRepository
	Notifier Notifier
}

func NewDeleteMessageUseCase(repo repository.ChatRepository, n Notifier) *DeleteMessageUseCase {
	if n == nil {
		n = NopNotifier{}
	}
	return &DeleteMessageUseCase{Repo: repo, Notifier: n}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	if in.MessageID == "" || in.RequesterID == "" {
		return fmt.Errorf("message_id and requester_id are required")
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg.SenderID != in.RequesterID {
		return chat.ErrNotOwner
	}
	if msg.Deleted {
		return nil
	}

	if err := uc.Repo.SoftDeleteMessage(ctx, in.MessageID, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Notifier.Emit(conversationRoom(msg.ConversationID), chat.EventMessageDeleted, chat.MessageDeletedEvent{
		MessageID: in.MessageID,
	}, "")
	return nil
}
