package chat

import (
	"strings"
	"time"
)

// MessageType represents the kind of content a message carries.
// The string values are part of the wire contract with clients.
type MessageType string

const (
	MessageTypeText       MessageType = "text"
	MessageTypeImage      MessageType = "image"
	MessageTypeVideo      MessageType = "video"
	MessageTypeAudio      MessageType = "audio"
	MessageTypeSharedPost MessageType = "shared_post"
	MessageTypeSharedReel MessageType = "shared_reel"
)

// Valid reports whether t is one of the known message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVideo, MessageTypeAudio,
		MessageTypeSharedPost, MessageTypeSharedReel:
		return true
	}
	return false
}

// Tombstone replaces the body of a soft-deleted message. The original content
// is not recoverable once replaced.
const Tombstone = "This message was deleted"

// Message is a log entry in a conversation. Ordering within a conversation is
// by CreatedAt, ties broken by id; the repository must never reorder.
type Message struct {
	ID             string      `json:"id" db:"id"`
	ConversationID string      `json:"conversationId" db:"conversation_id"`
	SenderID       string      `json:"senderId" db:"sender_id"`
	Body           string      `json:"content" db:"body"`
	MsgType        MessageType `json:"messageType" db:"msg_type"`
	ReplyTo        *string     `json:"replyTo,omitempty" db:"reply_to"`
	Edited         bool        `json:"edited" db:"edited"`
	EditedAt       *time.Time  `json:"editedAt,omitempty" db:"edited_at"`
	Deleted        bool        `json:"deleted" db:"deleted"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	Reactions      []Reaction  `json:"reactions"`
	Receipts       []Receipt   `json:"receipts,omitempty"`
}

// Reaction is a user's emoji on a message. At most one reaction exists per
// (message, user); adding a second replaces the first.
type Reaction struct {
	MessageID string    `json:"messageId" db:"message_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Emoji     string    `json:"emoji" db:"emoji"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Receipt is the per-recipient read marker for a message. Read is monotonic:
// once true it never reverts through this core.
type Receipt struct {
	MessageID string     `json:"messageId" db:"message_id"`
	UserID    string     `json:"userId" db:"user_id"`
	Read      bool       `json:"read" db:"read"`
	ReadAt    *time.Time `json:"readAt,omitempty" db:"read_at"`
}

// NewMessage validates and normalizes a message prior to persistence.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == "" || m.SenderID == "" {
		return nil, ErrInvalidConversation
	}

	m.Body = strings.TrimSpace(m.Body)
	if m.Body == "" {
		return nil, ErrEmptyMessage
	}

	if m.MsgType == "" {
		m.MsgType = MessageTypeText
	}
	if !m.MsgType.Valid() {
		return nil, ErrInvalidMessageType
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.Edited = false
	m.Deleted = false

	return &m, nil
}
