package repository

import (
	"context"
	"time"

	chat "go-banter/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
//
// Implementations must guarantee:
//   - GetOrCreateDirect is race-safe: concurrent first contact for the same
//     pair resolves to a single conversation (loser of the insert race falls
//     back to the lookup path).
//   - SaveMessage is atomic: message row, unread receipts for every recipient
//     and the conversation's latest-message pointer commit together.
//   - Read markers are monotonic: marking an already-read message is a no-op.
type ChatRepository interface {
	// Conversations
	GetOrCreateDirect(ctx context.Context, userA, userB string) (conv *chat.Conversation, created bool, err error)
	CreateGroup(ctx context.Context, name string, creatorID string, memberIDs []string) (*chat.Conversation, error)
	GetConversation(ctx context.Context, id string) (*chat.Conversation, error)
	ListConversationsForUser(ctx context.Context, userID string) ([]chat.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error)

	// Messages
	SaveMessage(ctx context.Context, m chat.Message) (*chat.Message, error)
	GetMessage(ctx context.Context, id string) (*chat.Message, error)
	GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error)
	UpdateMessageBody(ctx context.Context, messageID, body string, editedAt time.Time) (*chat.Message, error)
	SoftDeleteMessage(ctx context.Context, messageID string, at time.Time) error

	// Read state
	MarkMessageRead(ctx context.Context, messageID, userID string, at time.Time) (updated bool, err error)
	MarkConversationRead(ctx context.Context, conversationID, userID string, at time.Time) (messageIDs []string, err error)

	// Reactions
	UpsertReaction(ctx context.Context, r chat.Reaction) ([]chat.Reaction, error)
	DeleteReaction(ctx context.Context, messageID, userID string) (removed bool, err error)
}
