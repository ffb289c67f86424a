package usecase

import (
	"context"
	"errors"
	"testing"

	chat "go-banter/internal/pkg/chat/application/domain"
)

func TestSendMessageResolvesDirectConversation(t *testing.T) {
	repo := newMemRepo()
	rec := &recorder{}
	uc := NewSendMessageUseCase(repo, rec)

	first, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:    "alice",
		RecipientID: "bob",
		Body:        "hey bob",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	second, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:    "bob",
		RecipientID: "alice",
		Body:        "hey alice",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if first.Conversation.ID != second.Conversation.ID {
		t.Errorf("pair resolved to two conversations: %s vs %s", first.Conversation.ID, second.Conversation.ID)
	}
	if first.Conversation.Type != chat.ConversationTypeDirect {
		t.Errorf("type = %q, want direct", first.Conversation.Type)
	}
}

func TestSendMessageRejectsSelfConversation(t *testing.T) {
	uc := NewSendMessageUseCase(newMemRepo(), nil)
	_, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:    "alice",
		RecipientID: "alice",
		Body:        "talking to myself",
	})
	if !errors.Is(err, chat.ErrSelfConversation) {
		t.Fatalf("err = %v, want ErrSelfConversation", err)
	}
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	repo := newMemRepo()
	conv, _, _ := repo.GetOrCreateDirect(context.Background(), "alice", "bob")

	uc := NewSendMessageUseCase(repo, nil)
	_, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:       "mallory",
		ConversationID: conv.ID,
		Body:           "let me in",
	})
	if !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}

func TestSendMessageRejectsMissingConversation(t *testing.T) {
	uc := NewSendMessageUseCase(newMemRepo(), nil)
	_, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:       "alice",
		ConversationID: "nope",
		Body:           "hello?",
	})
	if !errors.Is(err, chat.ErrConversationNotFound) {
		t.Fatalf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestSendMessageRejectsBlankBody(t *testing.T) {
	repo := newMemRepo()
	conv, _, _ := repo.GetOrCreateDirect(context.Background(), "alice", "bob")

	uc := NewSendMessageUseCase(repo, nil)
	_, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:       "alice",
		ConversationID: conv.ID,
		Body:           "   ",
	})
	if !errors.Is(err, chat.ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestSendMessageRejectsCrossConversationReply(t *testing.T) {
	repo := newMemRepo()
	rec := &recorder{}
	uc := NewSendMessageUseCase(repo, rec)

	other, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:    "alice",
		RecipientID: "carol",
		Body:        "different thread",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	conv, _, _ := repo.GetOrCreateDirect(context.Background(), "alice", "bob")
	_, err = uc.Execute(context.Background(), SendMessageInput{
		SenderID:       "alice",
		ConversationID: conv.ID,
		Body:           "replying across threads",
		ReplyTo:        &other.Message.ID,
	})
	if !errors.Is(err, chat.ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference", err)
	}

	missing := "msg-404"
	_, err = uc.Execute(context.Background(), SendMessageInput{
		SenderID:       "alice",
		ConversationID: conv.ID,
		Body:           "replying to nothing",
		ReplyTo:        &missing,
	})
	if !errors.Is(err, chat.ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference for dangling reply", err)
	}
}

func TestSendMessageFanOutExcludesSender(t *testing.T) {
	repo := newMemRepo()
	rec := &recorder{}
	uc := NewSendMessageUseCase(repo, rec)

	result, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:    "alice",
		RecipientID: "bob",
		Body:        "hello",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	received := rec.byEvent(chat.EventReceiveMessage)
	if len(received) != 1 {
		t.Fatalf("receive_message events = %d, want 1", len(received))
	}
	if received[0].Exclude != "alice" {
		t.Errorf("exclude = %q, want sender excluded", received[0].Exclude)
	}
	if want := "conversation:" + result.Conversation.ID; received[0].Room != want {
		t.Errorf("room = %q, want %q", received[0].Room, want)
	}

	updated := rec.byEvent(chat.EventConversationUpdated)
	if len(updated) != 1 || updated[0].UserID != "bob" {
		t.Errorf("conversation_updated = %+v, want one nudge to bob", updated)
	}

	if len(result.Recipients) != 1 || result.Recipients[0] != "bob" {
		t.Errorf("recipients = %v, want [bob]", result.Recipients)
	}
}

func TestSendMessageMintsReceiptsForRecipientsOnly(t *testing.T) {
	repo := newMemRepo()
	conv, _ := repo.CreateGroup(context.Background(), "trio", "alice", []string{"bob", "carol"})

	uc := NewSendMessageUseCase(repo, nil)
	result, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:       "alice",
		ConversationID: conv.ID,
		Body:           "hi all",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Message.Receipts) != 2 {
		t.Fatalf("receipts = %d, want 2 (sender carries none)", len(result.Message.Receipts))
	}
	for _, rc := range result.Message.Receipts {
		if rc.UserID == "alice" {
			t.Error("sender must not get a receipt")
		}
		if rc.Read {
			t.Error("fresh receipt must start unread")
		}
	}
}

func TestResolveDirectConversationIsSingleton(t *testing.T) {
	repo := newMemRepo()
	uc := NewResolveDirectConversationUseCase(repo)

	a, err := uc.Execute(context.Background(), ResolveDirectConversationInput{UserID: "alice", PeerID: "bob"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	b, err := uc.Execute(context.Background(), ResolveDirectConversationInput{UserID: "bob", PeerID: "alice"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("ids differ: %s vs %s", a.ID, b.ID)
	}

	if _, err := uc.Execute(context.Background(), ResolveDirectConversationInput{UserID: "alice", PeerID: "alice"}); !errors.Is(err, chat.ErrSelfConversation) {
		t.Errorf("self resolve err = %v, want ErrSelfConversation", err)
	}
}
