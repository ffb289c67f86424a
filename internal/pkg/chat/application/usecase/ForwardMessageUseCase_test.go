package usecase

import (
	"context"
	"errors"
	"testing"

	chat "go-banter/internal/pkg/chat/application/domain"
)

func newForward(repo *memRepo, rec *recorder) *ForwardMessageUseCase {
	var n Notifier
	if rec != nil {
		n = rec
	}
	return NewForwardMessageUseCase(repo, NewSendMessageUseCase(repo, n))
}

func TestForwardMessageCopiesContentToRecipient(t *testing.T) {
	repo := newMemRepo()
	convID, msgID := seedDirect(t, repo)

	uc := newForward(repo, nil)
	result, err := uc.Execute(context.Background(), ForwardMessageInput{
		MessageID:   msgID,
		RequesterID: "bob",
		RecipientID: "carol",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Conversation.ID == convID {
		t.Error("forward must land in the bob<->carol conversation, not the source")
	}
	if result.Message.SenderID != "bob" {
		t.Errorf("senderId = %q, want forwarding user", result.Message.SenderID)
	}
	if result.Message.Body != "unread so far" {
		t.Errorf("body = %q, want source content", result.Message.Body)
	}
}

func TestForwardMessageRejectsDeletedSource(t *testing.T) {
	repo := newMemRepo()
	_, msgID := seedDirect(t, repo)

	del := NewDeleteMessageUseCase(repo, nil)
	if err := del.Execute(context.Background(), DeleteMessageInput{MessageID: msgID, RequesterID: "alice"}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	uc := newForward(repo, nil)
	_, err := uc.Execute(context.Background(), ForwardMessageInput{
		MessageID:   msgID,
		RequesterID: "bob",
		RecipientID: "carol",
	})
	if !errors.Is(err, chat.ErrMessageDeleted) {
		t.Fatalf("err = %v, want ErrMessageDeleted", err)
	}
}

func TestForwardMessageRequiresSourceVisibility(t *testing.T) {
	repo := newMemRepo()
	_, msgID := seedDirect(t, repo)

	uc := newForward(repo, nil)
	_, err := uc.Execute(context.Background(), ForwardMessageInput{
		MessageID:   msgID,
		RequesterID: "mallory",
		RecipientID: "carol",
	})
	if !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}
