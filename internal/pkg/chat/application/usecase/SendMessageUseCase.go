package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a new message. Exactly one
// of ConversationID or RecipientID must be set; with a RecipientID the direct
// conversation is resolved (or created) on the fly.
type SendMessageInput struct {
	SenderID       string
	ConversationID string
	RecipientID    string
	Body           string
	MsgType        chat.MessageType
	ReplyTo        *string
}

// SendMessageResult is the durable record plus the context controllers need
// for side channels (push-notification triggering).
type SendMessageResult struct {
	Message      *chat.Message
	Conversation *chat.Conversation
	Recipients   []string // active participants minus the sender
}

// SendMessageUseCase validates, persists and fans out a new message.
// Durability is established strictly before fan-out: a fan-out failure never
// implies the message was lost.
type SendMessageUseCase struct {
	Repo     repository.ChatRepository
	Notifier Notifier
}

func NewSendMessageUseCase(repo repository.ChatRepository, n Notifier) *SendMessageUseCase {
	if n == nil {
		n = NopNotifier{}
	}
	return &SendMessageUseCase{Repo: repo, Notifier: n}
}

// Execute runs the message pipeline: resolve target, validate, persist,
// fan out.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*SendMessageResult, error) {
	if in.SenderID == "" {
		return nil, fmt.Errorf("sender_id is required")
	}
	if in.ConversationID == "" && in.RecipientID == "" {
		return nil, fmt.Errorf("conversation_id or recipient_id is required")
	}

	conv, err := uc.resolveTarget(ctx, in)
	if err != nil {
		return nil, err
	}

	if !conv.HasActiveParticipant(in.SenderID) {
		return nil, chat.ErrNotParticipant
	}

	if in.ReplyTo != nil {
		ref, err := uc.Repo.GetMessage(ctx, *in.ReplyTo)
		if err != nil {
			if errors.Is(err, chat.ErrMessageNotFound) {
				return nil, chat.ErrInvalidReference
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if ref.ConversationID != conv.ID {
			return nil, chat.ErrInvalidReference
		}
	}

	msg, err := chat.NewMessage(chat.Message{
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		Body:           in.Body,
		MsgType:        in.MsgType,
		ReplyTo:        in.ReplyTo,
	})
	if err != nil {
		return nil, err
	}

	saved, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	recipients := make([]string, 0, len(conv.Participants))
	for _, p := range conv.Participants {
		if p.Active && p.UserID != in.SenderID {
			recipients = append(recipients, p.UserID)
		}
	}

	// The sender already holds the durable record from the return value, so
	// the room fan-out excludes them; recipients who have not joined the
	// conversation room still get their list view nudged.
	uc.Notifier.Emit(conversationRoom(conv.ID), chat.EventReceiveMessage, saved, in.SenderID)
	for _, userID := range recipients {
		uc.Notifier.EmitUser(userID, chat.EventConversationUpdated, chat.ConversationUpdatedEvent{ConversationID: conv.ID})
	}

	return &SendMessageResult{Message: saved, Conversation: conv, Recipients: recipients}, nil
}

func (uc *SendMessageUseCase) resolveTarget(ctx context.Context, in SendMessageInput) (*chat.Conversation, error) {
	if in.ConversationID != "" {
		conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
		if err != nil {
			if errors.Is(err, chat.ErrConversationNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return conv, nil
	}

	if in.RecipientID == in.SenderID {
		return nil, chat.ErrSelfConversation
	}
	conv, _, err := uc.Repo.GetOrCreateDirect(ctx, in.SenderID, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
