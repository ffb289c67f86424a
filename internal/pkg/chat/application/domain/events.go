package chat

// Event names pushed to clients over the realtime channel. These are part of
// the wire contract and must not be renamed.
const (
	EventReceiveMessage      = "receive_message"
	EventMessageSeen         = "message_seen"
	EventMessagesRead        = "messages_read"
	EventReactionAdded       = "reaction_added"
	EventReactionRemoved     = "reaction_removed"
	EventMessageEdited       = "message_edited"
	EventMessageDeleted      = "message_deleted"
	EventUserTyping          = "user_typing"
	EventUserTypingStop      = "user_typing_stop"
	EventConversationUpdated = "conversation_updated"
)

// MessageSeenEvent is emitted when a single message transitions to read.
type MessageSeenEvent struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
}

// MessagesReadEvent is the canonical bulk read event: one event carrying
// every message id that transitioned for the reader in the conversation.
type MessagesReadEvent struct {
	ConversationID string   `json:"conversationId"`
	UserID         string   `json:"userId"`
	MessageIDs     []string `json:"messageIds"`
}

// ReactionAddedEvent carries the new reaction plus the message's full
// reaction set so clients can replace local state wholesale.
type ReactionAddedEvent struct {
	MessageID string     `json:"messageId"`
	Reaction  Reaction   `json:"reaction"`
	Reactions []Reaction `json:"reactions"`
}

// ReactionRemovedEvent identifies the (message, user) pair whose reaction
// was removed.
type ReactionRemovedEvent struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
}

// MessageEditedEvent carries the updated message record.
type MessageEditedEvent struct {
	MessageID   string  `json:"messageId"`
	MessageData Message `json:"messageData"`
}

// MessageDeletedEvent carries only the id; clients replace content locally.
type MessageDeletedEvent struct {
	MessageID string `json:"messageId"`
}

// UserTypingEvent is relayed for both user_typing and user_typing_stop.
type UserTypingEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

// ConversationUpdatedEvent nudges a participant's conversation-list view to
// refetch after new activity.
type ConversationUpdatedEvent struct {
	ConversationID string `json:"conversationId"`
}
