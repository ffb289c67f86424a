package usecase

import (
	"context"
	"fmt"
	"time"

	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesInput carries parameters to fetch a conversation's history.
type GetMessagesInput struct {
	ConversationID string
	RequesterID    string
	Limit          int
	Offset         int
}

// GetMessagesUseCase returns a conversation's messages in creation order and
// applies the auto-read-on-view side effect: every message still unread for
// the requester transitions to read, and one bulk messages_read event is
// fanned out to the conversation room.
type GetMessagesUseCase struct {
	Repo     repository.ChatRepository
	Notifier Notifier
}

func NewGetMessagesUseCase(repo repository.ChatRepository, n Notifier) *GetMessagesUseCase {
	if n == nil {
		n = NopNotifier{}
	}
	return &GetMessagesUseCase{Repo: repo, Notifier: n}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]chat.Message, error) {
	if in.ConversationID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("conversation_id and requester_id are required")
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrNotParticipant
	}

	// Mark before fetching so the returned receipts reflect the transition.
	readIDs, err := uc.Repo.MarkConversationRead(ctx, in.ConversationID, in.RequesterID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msgs, err := uc.Repo.GetMessagesByConversation(ctx, in.ConversationID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if len(readIDs) > 0 {
		uc.Notifier.Emit(conversationRoom(in.ConversationID), chat.EventMessagesRead, chat.MessagesReadEvent{
			ConversationID: in.ConversationID,
			UserID:         in.RequesterID,
			MessageIDs:     readIDs,
		}, "")
	}

	return msgs, nil
}
