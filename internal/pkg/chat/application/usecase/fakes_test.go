package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	chat "go-banter/internal/pkg/chat/application/domain"
)

// memRepo is an in-memory ChatRepository with the same semantics the Postgres
// adapter provides: singleton direct conversations, receipts minted for
// recipients at save time, monotonic read markers.
type memRepo struct {
	mu            sync.Mutex
	seq           int
	conversations map[string]*chat.Conversation
	directByKey   map[string]string
	messages      map[string]*chat.Message
	order         []string                            // message ids in creation order
	reactions     map[string]map[string]chat.Reaction // messageID -> userID -> reaction
	receipts      map[string]map[string]*chat.Receipt // messageID -> userID -> receipt
}

func newMemRepo() *memRepo {
	return &memRepo{
		conversations: make(map[string]*chat.Conversation),
		directByKey:   make(map[string]string),
		messages:      make(map[string]*chat.Message),
		reactions:     make(map[string]map[string]chat.Reaction),
		receipts:      make(map[string]map[string]*chat.Receipt),
	}
}

func (r *memRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *memRepo) GetOrCreateDirect(_ context.Context, userA, userB string) (*chat.Conversation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := chat.DirectKey(userA, userB)
	if id, ok := r.directByKey[key]; ok {
		return r.snapshotConversation(id), false, nil
	}

	conv := &chat.Conversation{
		ID:        r.nextID("conv"),
		Type:      chat.ConversationTypeDirect,
		CreatedAt: time.Now().UTC(),
		Participants: []chat.Participant{
			{UserID: userA, Role: chat.ParticipantRoleMember, Active: true},
			{UserID: userB, Role: chat.ParticipantRoleMember, Active: true},
		},
	}
	for i := range conv.Participants {
		conv.Participants[i].ConversationID = conv.ID
	}
	r.conversations[conv.ID] = conv
	r.directByKey[key] = conv.ID
	return r.snapshotConversation(conv.ID), true, nil
}

func (r *memRepo) CreateGroup(_ context.Context, name string, creatorID string, memberIDs []string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv := &chat.Conversation{
		ID:        r.nextID("conv"),
		Type:      chat.ConversationTypeGroup,
		Name:      &name,
		CreatedAt: time.Now().UTC(),
		Participants: []chat.Participant{
			{UserID: creatorID, Role: chat.ParticipantRoleAdmin, Active: true},
		},
	}
	for _, id := range memberIDs {
		conv.Participants = append(conv.Participants, chat.Participant{UserID: id, Role: chat.ParticipantRoleMember, Active: true})
	}
	for i := range conv.Participants {
		conv.Participants[i].ConversationID = conv.ID
	}
	r.conversations[conv.ID] = conv
	return r.snapshotConversation(conv.ID), nil
}

func (r *memRepo) GetConversation(_ context.Context, id string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[id]; !ok {
		return nil, chat.ErrConversationNotFound
	}
	return r.snapshotConversation(id), nil
}

func (r *memRepo) ListConversationsForUser(_ context.Context, userID string) ([]chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Conversation
	for id, conv := range r.conversations {
		for _, p := range conv.Participants {
			if p.UserID == userID && p.Active {
				out = append(out, *r.snapshotConversation(id))
				break
			}
		}
	}
	return out, nil
}

func (r *memRepo) IsParticipant(_ context.Context, conversationID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[conversationID]
	if !ok {
		return false, nil
	}
	for _, p := range conv.Participants {
		if p.UserID == userID && p.Active {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ListParticipantIDs(_ context.Context, conversationID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[conversationID]
	if !ok {
		return nil, nil
	}
	var ids []string
	for _, p := range conv.Participants {
		if p.Active {
			ids = append(ids, p.UserID)
		}
	}
	return ids, nil
}

func (r *memRepo) SaveMessage(_ context.Context, m chat.Message) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[m.ConversationID]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}

	m.ID = r.nextID("msg")
	stored := m
	r.messages[m.ID] = &stored
	r.order = append(r.order, m.ID)
	conv.LastMessageID = &stored.ID

	r.receipts[m.ID] = make(map[string]*chat.Receipt)
	for _, p := range conv.Participants {
		if !p.Active || p.UserID == m.SenderID {
			continue
		}
		r.receipts[m.ID][p.UserID] = &chat.Receipt{MessageID: m.ID, UserID: p.UserID}
	}
	return r.snapshotMessage(m.ID), nil
}

func (r *memRepo) GetMessage(_ context.Context, id string) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return nil, chat.ErrMessageNotFound
	}
	return r.snapshotMessage(id), nil
}

func (r *memRepo) GetMessagesByConversation(_ context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, id := range r.order {
		if r.messages[id].ConversationID == conversationID {
			out = append(out, *r.snapshotMessage(id))
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) UpdateMessageBody(_ context.Context, messageID, body string, editedAt time.Time) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[messageID]
	if !ok {
		return nil, chat.ErrMessageNotFound
	}
	msg.Body = body
	msg.Edited = true
	msg.EditedAt = &editedAt
	return r.snapshotMessage(messageID), nil
}

func (r *memRepo) SoftDeleteMessage(_ context.Context, messageID string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[messageID]
	if !ok {
		return chat.ErrMessageNotFound
	}
	msg.Deleted = true
	msg.Body = chat.Tombstone
	return nil
}

func (r *memRepo) MarkMessageRead(_ context.Context, messageID, userID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	receipt := r.receipts[messageID][userID]
	if receipt == nil || receipt.Read {
		return false, nil
	}
	receipt.Read = true
	receipt.ReadAt = &at
	return true, nil
}

func (r *memRepo) MarkConversationRead(_ context.Context, conversationID, userID string, at time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, id := range r.order {
		if r.messages[id].ConversationID != conversationID {
			continue
		}
		receipt := r.receipts[id][userID]
		if receipt == nil || receipt.Read {
			continue
		}
		receipt.Read = true
		receipt.ReadAt = &at
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memRepo) UpsertReaction(_ context.Context, reaction chat.Reaction) ([]chat.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser := r.reactions[reaction.MessageID]
	if byUser == nil {
		byUser = make(map[string]chat.Reaction)
		r.reactions[reaction.MessageID] = byUser
	}
	byUser[reaction.UserID] = reaction

	out := make([]chat.Reaction, 0, len(byUser))
	for _, re := range byUser {
		out = append(out, re)
	}
	return out, nil
}

func (r *memRepo) DeleteReaction(_ context.Context, messageID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser := r.reactions[messageID]
	if _, ok := byUser[userID]; !ok {
		return false, nil
	}
	delete(byUser, userID)
	return true, nil
}

func (r *memRepo) snapshotConversation(id string) *chat.Conversation {
	conv := *r.conversations[id]
	conv.Participants = append([]chat.Participant(nil), r.conversations[id].Participants...)
	return &conv
}

func (r *memRepo) snapshotMessage(id string) *chat.Message {
	msg := *r.messages[id]
	msg.Reactions = nil
	for _, re := range r.reactions[id] {
		msg.Reactions = append(msg.Reactions, re)
	}
	msg.Receipts = nil
	for _, rc := range r.receipts[id] {
		msg.Receipts = append(msg.Receipts, *rc)
	}
	return &msg
}

// emitted is one captured fan-out call.
type emitted struct {
	Room    string
	UserID  string // set for EmitUser calls
	Event   string
	Data    any
	Exclude string
}

// recorder captures Notifier calls for assertions.
type recorder struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recorder) Emit(room string, event string, data any, excludeUserID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{Room: room, Event: event, Data: data, Exclude: excludeUserID})
	return 1
}

func (r *recorder) EmitUser(userID string, event string, data any) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{UserID: userID, Event: event, Data: data})
	return 1
}

func (r *recorder) byEvent(event string) []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []emitted
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
