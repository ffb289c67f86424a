package chat

import (
	"strings"
	"time"
)

// ConversationType discriminates 1:1 threads from group threads.
type ConversationType string

const (
	ConversationTypeDirect ConversationType = "direct"
	ConversationTypeGroup  ConversationType = "group"
)

// Conversation is the durable container for an ordered sequence of messages
// between a fixed participant set.
//
// Invariant: for direct conversations the unordered participant pair is unique
// system-wide. The repository enforces this with a unique index on the
// normalized pair key (see DirectKey); concurrent first contact from both
// sides must resolve to the same row.
type Conversation struct {
	ID            string           `json:"id" db:"id"`
	Type          ConversationType `json:"type" db:"type"`
	Name          *string          `json:"name,omitempty" db:"name"`
	AvatarURL     *string          `json:"avatarUrl,omitempty" db:"avatar_url"`
	LastMessageID *string          `json:"lastMessageId,omitempty" db:"last_message_id"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
	Participants  []Participant    `json:"participants,omitempty"`
	LastMessage   *Message         `json:"lastMessage,omitempty"`
}

// HasActiveParticipant reports whether userID is an active member.
// Participants must be hydrated by the caller.
func (c *Conversation) HasActiveParticipant(userID string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Participants {
		if p.UserID == userID && p.Active {
			return true
		}
	}
	return false
}

// DirectKey normalizes an unordered user pair into the canonical lookup key
// for a direct conversation. Both orders of the same pair yield the same key.
func DirectKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + ":" + b
}
