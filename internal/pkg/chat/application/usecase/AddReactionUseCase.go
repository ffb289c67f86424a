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

// AddReactionInput upserts the user's reaction on a message.
type AddReactionInput struct {
	MessageID string
	UserID    string
	Emoji     string
}

// AddReactionUseCase enforces the one-reaction-per-user invariant: a second
// emoji from the same user replaces the first, never appends.
type AddReactionUseCase struct {
	Repo     repository.ChatRepository
	Notifier Notifier
}

func NewAddReactionUseCase(repo repository.ChatRepository, n Notifier) *AddReactionUseCase {
	if n == nil {
		n = NopNotifier{}
	}
	return &AddReactionUseCase{Repo: repo, Notifier: n}
}

func (uc *AddReactionUseCase) Execute(ctx context.Context, in AddReactionInput) ([]chat.Reaction, error) {
	in.Emoji = strings.TrimSpace(in.Emoji)
	if in.MessageID == "" || in.UserID == "" || in.Emoji == "" {
		return nil, fmt.Errorf("message_id, user_id and emoji are required")
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	ok, err := uc.Repo.IsParticipant(ctx, msg.ConversationID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrNotParticipant
	}

	reaction := chat.Reaction{
		MessageID: in.MessageID,
		UserID:    in.UserID,
		Emoji:     in.Emoji,
		CreatedAt: time.Now().UTC(),
	}
	reactions, err := uc.Repo.UpsertReaction(ctx, reaction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Notifier.Emit(conversationRoom(msg.ConversationID), chat.EventReactionAdded, chat.ReactionAddedEvent{
		MessageID: in.MessageID,
		Reaction:  reaction,
		Reactions: reactions,
	}, "")
	return reactions, nil
}
