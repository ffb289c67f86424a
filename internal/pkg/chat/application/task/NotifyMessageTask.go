package task

import (
	"context"
	"encoding/json"
	"log"
	"time"
	"unicode/utf8"

	qport "go-banter/internal/infrastructure/queue/port"
	chat "go-banter/internal/pkg/chat/application/domain"
)

// NotifyMessageTaskType is the queue task name for triggering push
// notifications after a message commits. Delivery mechanics live in the push
// gateway consuming this queue; this core only triggers.
const NotifyMessageTaskType = "chat:notify_message"

// NotifyMessagePayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid coupling queue consumers to
// domain JSON tags.
type NotifyMessagePayload struct {
	MessageID      string   `json:"messageId"`
	ConversationID string   `json:"conversationId"`
	SenderID       string   `json:"senderId"`
	RecipientIDs   []string `json:"recipientIds"`
	Preview        string   `json:"preview"`
	MessageType    string   `json:"messageType"`
}

const previewLimit = 120

// truncatePreview cuts body to at most limit bytes without splitting a
// multi-byte rune, so the queue payload stays valid UTF-8.
func truncatePreview(body string, limit int) string {
	if len(body) <= limit {
		return body
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}

// EnqueueNotifyMessage schedules a push-notification trigger for the message.
// Best-effort: the message is already durable, a failed enqueue only costs
// the push, so callers log and move on.
func EnqueueNotifyMessage(ctx context.Context, q qport.Client, msg *chat.Message, recipientIDs []string) error {
	if q == nil || len(recipientIDs) == 0 {
		return nil
	}

	preview := truncatePreview(msg.Body, previewLimit)
	payload := NotifyMessagePayload{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		RecipientIDs:   recipientIDs,
		Preview:        preview,
		MessageType:    string(msg.MsgType),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	opts := qport.EnqueueOption{Queue: "chat", MaxRetry: 5, Retention: time.Hour}
	_, err = q.Enqueue(ctx, qport.Task{Type: NotifyMessageTaskType, Payload: b}, opts)
	return err
}

// RegisterNotifyMessageTask binds the trigger handler to the worker server.
// The handler hands the payload to the push gateway boundary; here that
// boundary is a log line per recipient until the gateway client lands.
func RegisterNotifyMessageTask(srv qport.Server) {
	srv.Register(NotifyMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyMessagePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying will not help
			return nil
		}
		for _, userID := range p.RecipientIDs {
			log.Printf("push trigger: user=%s conversation=%s message=%s", userID, p.ConversationID, p.MessageID)
		}
		return nil
	})
}
