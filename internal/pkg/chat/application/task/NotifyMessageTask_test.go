package task

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	qport "go-banter/internal/infrastructure/queue/port"
	chat "go-banter/internal/pkg/chat/application/domain"
)

type captureClient struct {
	tasks []qport.Task
	opts  []qport.EnqueueOption
}

func (c *captureClient) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	c.tasks = append(c.tasks, t)
	c.opts = append(c.opts, opts...)
	return "task-1", nil
}

func (c *captureClient) Close() error { return nil }

func TestEnqueueNotifyMessagePayload(t *testing.T) {
	client := &captureClient{}
	msg := &chat.Message{
		ID:             "m1",
		ConversationID: "c1",
		SenderID:       "alice",
		Body:           "hello bob",
		MsgType:        chat.MessageTypeText,
	}

	if err := EnqueueNotifyMessage(context.Background(), client, msg, []string{"bob"}); err != nil {
		t.Fatalf("EnqueueNotifyMessage: %v", err)
	}
	if len(client.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(client.tasks))
	}
	if client.tasks[0].Type != NotifyMessageTaskType {
		t.Errorf("type = %q, want %q", client.tasks[0].Type, NotifyMessageTaskType)
	}
	if client.opts[0].Queue != "chat" {
		t.Errorf("queue = %q, want chat", client.opts[0].Queue)
	}

	var payload NotifyMessagePayload
	if err := json.Unmarshal(client.tasks[0].Payload, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.MessageID != "m1" || payload.Preview != "hello bob" || len(payload.RecipientIDs) != 1 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestEnqueueNotifyMessageTruncatesPreview(t *testing.T) {
	client := &captureClient{}
	msg := &chat.Message{
		ID:             "m1",
		ConversationID: "c1",
		SenderID:       "alice",
		Body:           strings.Repeat("x", 500),
	}

	if err := EnqueueNotifyMessage(context.Background(), client, msg, []string{"bob"}); err != nil {
		t.Fatalf("EnqueueNotifyMessage: %v", err)
	}
	var payload NotifyMessagePayload
	if err := json.Unmarshal(client.tasks[0].Payload, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Preview) != previewLimit {
		t.Errorf("preview length = %d, want %d", len(payload.Preview), previewLimit)
	}
}

func TestEnqueueNotifyMessageKeepsPreviewValidUTF8(t *testing.T) {
	client := &captureClient{}
	msg := &chat.Message{
		ID:             "m1",
		ConversationID: "c1",
		SenderID:       "alice",
		// 4-byte runes that do not align with the byte limit.
		Body: strings.Repeat("🦆", previewLimit),
	}

	if err := EnqueueNotifyMessage(context.Background(), client, msg, []string{"bob"}); err != nil {
		t.Fatalf("EnqueueNotifyMessage: %v", err)
	}
	var payload NotifyMessagePayload
	if err := json.Unmarshal(client.tasks[0].Payload, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !utf8.ValidString(payload.Preview) {
		t.Error("preview contains a split rune")
	}
	if len(payload.Preview) > previewLimit {
		t.Errorf("preview length = %d, want <= %d", len(payload.Preview), previewLimit)
	}
	if payload.Preview == "" {
		t.Error("preview should keep the leading runes")
	}
}

func TestEnqueueNotifyMessageSkipsWhenNothingToDo(t *testing.T) {
	client := &captureClient{}
	msg := &chat.Message{ID: "m1", ConversationID: "c1", SenderID: "alice", Body: "hi"}

	if err := EnqueueNotifyMessage(context.Background(), client, msg, nil); err != nil {
		t.Fatalf("no recipients: %v", err)
	}
	if err := EnqueueNotifyMessage(context.Background(), nil, msg, []string{"bob"}); err != nil {
		t.Fatalf("nil client: %v", err)
	}
	if len(client.tasks) != 0 {
		t.Errorf("tasks = %d, want 0", len(client.tasks))
	}
}
