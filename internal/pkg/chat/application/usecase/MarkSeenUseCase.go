package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// MarkSeenInput identifies the (message, reader) pair.
type MarkSeenInput struct {
	MessageID string
	UserID    string
}

// MarkSeenUseCase transitions one receipt from unread to read. Calls by the
// sender, by a non-recipient, or against an already-read message are silent
// no-ops so the operation stays idempotent under retries.
type MarkSeenUseCase struct {
	Repo     repository.ChatRepository
	Notifier Notifier
}

func NewMarkSeenUseCase(repo repository.ChatRepository, n Notifier) *MarkSeenUseCase {
	if n == nil {
		n = NopNotifier{}
	}
	return &MarkSeenUseCase{Repo: repo, Notifier: n}
}

func (uc *MarkSeenUseCase) Execute(ctx context.Context, in MarkSeenInput) error {
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

	updated, err := uc.Repo.MarkMessageRead(ctx, in.MessageID, in.UserID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !updated {
		return nil
	}

	uc.Notifier.Emit(conversationRoom(msg.ConversationID), chat.EventMessageSeen, chat.MessageSeenEvent{
		MessageID: in.MessageID,
		UserID:    in.UserID,
	}, "")
	return nil
}
