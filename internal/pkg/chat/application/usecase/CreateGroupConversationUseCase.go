package usecase

import (
	"context"
	"fmt"
	"strings"

	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// CreateGroupConversationInput opens a new group thread. The creator becomes
// admin; listed members join as regular members.
type CreateGroupConversationInput struct {
	CreatorID string
	Name      string
	MemberIDs []string
}

// CreateGroupConversationUseCase persists a group conversation with its
// participant list and role assignments.
type CreateGroupConversationUseCase struct {
	Repo     repository.ChatRepository
	Notifier Notifier
}

func NewCreateGroupConversationUseCase(repo repository.ChatRepository, n Notifier) *CreateGroupConversationUseCase {
	if n == nil {
		n = NopNotifier{}
	}
	return &CreateGroupConversationUseCase{Repo: repo, Notifier: n}
}

func (uc *CreateGroupConversationUseCase) Execute(ctx context.Context, in CreateGroupConversationInput) (*chat.Conversation, error) {
	if in.CreatorID == "" {
		return nil, fmt.Errorf("creator_id is required")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("group name is required")
	}

	members := make([]string, 0, len(in.MemberIDs))
	for _, id := range in.MemberIDs {
		if id == "" || id == in.CreatorID {
			continue
		}
		members = append(members, id)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("member_ids must include at least one other user")
	}

	conv, err := uc.Repo.CreateGroup(ctx, in.Name, in.CreatorID, members)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	for _, p := range conv.Participants {
		uc.Notifier.EmitUser(p.UserID, chat.EventConversationUpdated, chat.ConversationUpdatedEvent{ConversationID: conv.ID})
	}
	return conv, nil
}
