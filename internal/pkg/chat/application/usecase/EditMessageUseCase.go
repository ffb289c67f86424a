package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// EditMessageInput carries the replacement content.
type EditMessageInput struct {
	MessageID   string
	RequesterID string
	Body        string
}

// EditMessageUseCase updates a message's content. Only the sender may edit,
// and never after a soft delete; both violations map to Forbidden at the
// presentation layer and leave the content untouched.
type EditMessageUseCase struct {
	Repo     repository.ChatRepository
	Notifier Notifier
}

func NewEditMessageUseCase(repo repository.ChatRepository, n Notifier) *EditMessageUseCase {
	if n == nil {
		n = NopNotifier{}
	}
	return &EditMessageUseCase{Repo: repo, Notifier: n}
}

func (uc *EditMessageUseCase) Execute(ctx context.Context, in EditMessageInput) (*chat.Message, error) {
	in.Body = strings.TrimSpace(in.Body)
	if in.MessageID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("message_id and requester_id are required")
	}
	if in.Body == "" {
		return nil, chat.ErrEmptyMessage
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg.SenderID != in.RequesterID {
		return nil, chat.ErrNotOwner
	}
	if msg.Deleted {
		return nil, chat.ErrMessageDeleted
	}

	updated, err := uc.Repo.UpdateMessageBody(ctx, in.MessageID, in.Body, time.Now().UTC())
	if err != nil {
		// A delete can land between the check above and the update; keep the
		// sentinel so it still maps to Forbidden, not a persistence fault.
		if errors.Is(err, chat.ErrMessageDeleted) || errors.Is(err, chat.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Notifier.Emit(conversationRoom(msg.ConversationID), chat.EventMessageEdited, chat.MessageEditedEvent{
		MessageID:   updated.ID,
		MessageData: *updated,
	}, "")
	return updated, nil
}
