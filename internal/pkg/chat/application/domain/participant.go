package chat

// ParticipantRole expresses the role within a conversation.
type ParticipantRole string

const (
	ParticipantRoleAdmin  ParticipantRole = "admin"
	ParticipantRoleMember ParticipantRole = "member"
)

// Participant captures membership state.
// Primary key: (ConversationID, UserID)
type Participant struct {
	ConversationID string          `json:"conversationId" db:"conversation_id"`
	UserID         string          `json:"userId" db:"user_id"`
	Role           ParticipantRole `json:"role" db:"role"`
	Active         bool            `json:"active" db:"active"`
}
