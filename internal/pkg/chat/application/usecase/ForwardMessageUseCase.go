package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// ForwardMessageInput forwards an existing message to another user.
type ForwardMessageInput struct {
	MessageID   string
	RequesterID string
	RecipientID string
}

// ForwardMessageUseCase reads the source message and re-sends its content
// through the message pipeline as if the requester composed it toward the
// recipient. A convenience composition, not a new persistence concept.
type ForwardMessageUseCase struct {
	Repo repository.ChatRepository
	Send *SendMessageUseCase
}

func NewForwardMessageUseCase(repo repository.ChatRepository, send *SendMessageUseCase) *ForwardMessageUseCase {
	return &ForwardMessageUseCase{Repo: repo, Send: send}
}

func (uc *ForwardMessageUseCase) Execute(ctx context.Context, in ForwardMessageInput) (*SendMessageResult, error) {
	if in.MessageID == "" || in.RequesterID == "" || in.RecipientID == "" {
		return nil, fmt.Errorf("message_id, requester_id and recipient_id are required")
	}

	src, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	ok, err := uc.Repo.IsParticipant(ctx, src.ConversationID, in.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrNotParticipant
	}
	if src.Deleted {
		return nil, chat.ErrMessageDeleted
	}

	return uc.Send.Execute(ctx, SendMessageInput{
		SenderID:    in.RequesterID,
		RecipientID: in.RecipientID,
		Body:        src.Body,
		MsgType:     src.MsgType,
	})
}
