package chat

import "errors"

// Domain-level errors for chat behaviors. The presentation layer maps these
// to HTTP statuses and websocket error codes.
var (
	ErrInvalidConversation  = errors.New("chat: conversation/message identity mismatch")
	ErrNotParticipant       = errors.New("chat: user is not a participant in the conversation")
	ErrNotOwner             = errors.New("chat: user is not the sender of the message")
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrMessageNotFound      = errors.New("chat: message not found")
	ErrInvalidReference     = errors.New("chat: reply references a message outside the conversation")
	ErrMessageDeleted       = errors.New("chat: message has been deleted")
	ErrEmptyMessage         = errors.New("chat: empty message body")
	ErrInvalidMessageType   = errors.New("chat: unknown message type")
	ErrSelfConversation     = errors.New("chat: direct conversation requires two distinct users")
)
