package usecase

import (
	"context"
	"fmt"

	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// ResolveDirectConversationInput identifies the unordered user pair.
type ResolveDirectConversationInput struct {
	UserID string
	PeerID string
}

// ResolveDirectConversationUseCase finds or creates the singleton direct
// conversation for a pair of users. Concurrent first contact from both sides
// yields the same conversation; the insert-race loser falls back to lookup
// inside the repository.
type ResolveDirectConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewResolveDirectConversationUseCase(repo repository.ChatRepository) *ResolveDirectConversationUseCase {
	return &ResolveDirectConversationUseCase{Repo: repo}
}

func (uc *ResolveDirectConversationUseCase) Execute(ctx context.Context, in ResolveDirectConversationInput) (*chat.Conversation, error) {
	if in.UserID == "" || in.PeerID == "" {
		return nil, fmt.Errorf("user_id and peer_id are required")
	}
	if in.UserID == in.PeerID {
		return nil, chat.ErrSelfConversation
	}

	conv, _, err := uc.Repo.GetOrCreateDirect(ctx, in.UserID, in.PeerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
