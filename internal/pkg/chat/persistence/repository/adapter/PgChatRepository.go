package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "go-banter/internal/pkg/chat/application/domain"
)

// PgChatRepository persists the chat domain in Postgres (schema "chat", see
// migrations/0001_init.sql). Direct-conversation uniqueness is enforced by a
// unique index on the normalized pair key; message/receipt/pointer writes
// commit in one transaction.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) GetOrCreateDirect(ctx context.Context, userA, userB string) (*chat.Conversation, bool, error) {
	if r == nil || r.pool == nil {
		return nil, false, errors.New("PgChatRepository: nil pool")
	}
	key := chat.DirectKey(userA, userB)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	created := true
	err = tx.QueryRow(ctx, `
		INSERT INTO chat.conversation (type, direct_key, created_at)
		VALUES ('direct', $1, $2)
		ON CONFLICT (direct_key) WHERE direct_key IS NOT NULL DO NOTHING
		RETURNING id::text
	`, key, time.Now().UTC()).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the creation race or the pair already exists: fall back to lookup.
		created = false
		if err := tx.QueryRow(ctx,
			`SELECT id::text FROM chat.conversation WHERE direct_key = $1`, key,
		).Scan(&id); err != nil {
			return nil, false, err
		}
	} else if err != nil {
		return nil, false, err
	}

	if created {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.participant (conversation_id, user_id, role, active)
			VALUES ($1::uuid, $2, 'member', true), ($1::uuid, $3, 'member', true)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, id, userA, userB); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	conv, err := r.GetConversation(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return conv, created, nil
}

func (r *PgChatRepository) CreateGroup(ctx context.Context, name string, creatorID string, memberIDs []string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	if err := tx.QueryRow(ctx, `
		INSERT INTO chat.conversation (type, name, created_at)
		VALUES ('group', $1, $2)
		RETURNING id::text
	`, name, time.Now().UTC()).Scan(&id); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO chat.participant (conversation_id, user_id, role, active)
		VALUES ($1::uuid, $2, 'admin', true)
	`, id, creatorID); err != nil {
		return nil, err
	}
	for _, userID := range memberIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.participant (conversation_id, user_id, role, active)
			VALUES ($1::uuid, $2, 'member', true)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, id, userID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetConversation(ctx, id)
}

func (r *PgChatRepository) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var conv chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, type, name, avatar_url, last_message_id::text, created_at
		FROM chat.conversation
		WHERE id = $1::uuid
	`, id).Scan(&conv.ID, &conv.Type, &conv.Name, &conv.AvatarURL, &conv.LastMessageID, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT conversation_id::text, user_id, role, active
		FROM chat.participant
		WHERE conversation_id = $1::uuid
		ORDER BY user_id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p chat.Participant
		if err := rows.Scan(&p.ConversationID, &p.UserID, &p.Role, &p.Active); err != nil {
			return nil, err
		}
		conv.Participants = append(conv.Participants, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return &conv, nil
}

func (r *PgChatRepository) ListConversationsForUser(ctx context.Context, userID string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.type, c.name, c.avatar_url, c.last_message_id::text, c.created_at
		FROM chat.conversation c
		JOIN chat.participant p ON p.conversation_id = c.id
		LEFT JOIN chat.message m ON m.id = c.last_message_id
		WHERE p.user_id = $1 AND p.active
		ORDER BY COALESCE(m.created_at, c.created_at) DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		var conv chat.Conversation
		if err := rows.Scan(&conv.ID, &conv.Type, &conv.Name, &conv.AvatarURL, &conv.LastMessageID, &conv.CreatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for i := range convs {
		if convs[i].LastMessageID == nil {
			continue
		}
		msg, err := r.GetMessage(ctx, *convs[i].LastMessageID)
		if err != nil {
			if errors.Is(err, chat.ErrMessageNotFound) {
				continue
			}
			return nil, err
		}
		convs[i].LastMessage = msg
	}
	return convs, nil
}

func (r *PgChatRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.participant
			WHERE conversation_id = $1::uuid AND user_id = $2 AND active
		)
	`, conversationID, userID).Scan(&ok)
	return ok, err
}

func (r *PgChatRepository) ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM chat.participant
		WHERE conversation_id = $1::uuid AND active
		ORDER BY user_id
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	if err := tx.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, body, msg_type, reply_to, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5::uuid, $6)
		RETURNING id::text
	`, m.ConversationID, m.SenderID, m.Body, m.MsgType, m.ReplyTo, m.CreatedAt).Scan(&id); err != nil {
		return nil, err
	}

	// One unread receipt per recipient; the sender carries none.
	if _, err := tx.Exec(ctx, `
		INSERT INTO chat.receipt (message_id, user_id, read)
		SELECT $1::uuid, user_id, false
		FROM chat.participant
		WHERE conversation_id = $2::uuid AND active AND user_id <> $3
	`, id, m.ConversationID, m.SenderID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE chat.conversation SET last_message_id = $1::uuid WHERE id = $2::uuid
	`, id, m.ConversationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetMessage(ctx, id)
}

func (r *PgChatRepository) GetMessage(ctx context.Context, id string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var msg chat.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, conversation_id::text, sender_id, body, msg_type, reply_to::text,
		       edited, edited_at, deleted, created_at
		FROM chat.message
		WHERE id = $1::uuid
	`, id).Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body, &msg.MsgType,
		&msg.ReplyTo, &msg.Edited, &msg.EditedAt, &msg.Deleted, &msg.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.hydrate(ctx, []*chat.Message{&msg}); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *PgChatRepository) GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id::text, sender_id, body, msg_type, reply_to::text,
		       edited, edited_at, deleted, created_at
		FROM chat.message
		WHERE conversation_id = $1::uuid
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body, &msg.MsgType,
			&msg.ReplyTo, &msg.Edited, &msg.EditedAt, &msg.Deleted, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	refs := make([]*chat.Message, len(msgs))
	for i := range msgs {
		refs[i] = &msgs[i]
	}
	if err := r.hydrate(ctx, refs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *PgChatRepository) UpdateMessageBody(ctx context.Context, messageID, body string, editedAt time.Time) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET body = $2, edited = true, edited_at = $3
		WHERE id = $1::uuid AND NOT deleted
	`, messageID, body, editedAt)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		// Either the row is gone or a concurrent delete landed first; the two
		// map to different caller errors, so look again.
		var deleted bool
		err := r.pool.QueryRow(ctx,
			`SELECT deleted FROM chat.message WHERE id = $1::uuid`, messageID,
		).Scan(&deleted)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, chat.ErrMessageNotFound
		}
		if err != nil {
			return nil, err
		}
		if deleted {
			return nil, chat.ErrMessageDeleted
		}
		return nil, chat.ErrMessageNotFound
	}
	return r.GetMessage(ctx, messageID)
}

func (r *PgChatRepository) SoftDeleteMessage(ctx context.Context, messageID string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET deleted = true, body = $2, edited_at = COALESCE(edited_at, $3)
		WHERE id = $1::uuid AND NOT deleted
	`, messageID, chat.Tombstone, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrMessageNotFound
	}
	return nil
}

func (r *PgChatRepository) MarkMessageRead(ctx context.Context, messageID, userID string, at time.Time) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.receipt
		SET read = true, read_at = $3
		WHERE message_id = $1::uuid AND user_id = $2 AND NOT read
	`, messageID, userID, at)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgChatRepository) MarkConversationRead(ctx context.Context, conversationID, userID string, at time.Time) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		UPDATE chat.receipt rc
		SET read = true, read_at = $3
		FROM chat.message m
		WHERE m.id = rc.message_id
		  AND m.conversation_id = $1::uuid
		  AND rc.user_id = $2
		  AND NOT rc.read
		RETURNING rc.message_id::text
	`, conversationID, userID, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgChatRepository) UpsertReaction(ctx context.Context, reaction chat.Reaction) ([]chat.Reaction, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO chat.reaction (message_id, user_id, emoji, created_at)
		VALUES ($1::uuid, $2, $3, $4)
		ON CONFLICT (message_id, user_id)
		DO UPDATE SET emoji = EXCLUDED.emoji, created_at = EXCLUDED.created_at
	`, reaction.MessageID, reaction.UserID, reaction.Emoji, reaction.CreatedAt); err != nil {
		return nil, err
	}
	return r.listReactions(ctx, reaction.MessageID)
}

func (r *PgChatRepository) DeleteReaction(ctx context.Context, messageID, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM chat.reaction WHERE message_id = $1::uuid AND user_id = $2
	`, messageID, userID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgChatRepository) listReactions(ctx context.Context, messageID string) ([]chat.Reaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT message_id::text, user_id, emoji, created_at
		FROM chat.reaction
		WHERE message_id = $1::uuid
		ORDER BY created_at, user_id
	`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reactions := []chat.Reaction{}
	for rows.Next() {
		var re chat.Reaction
		if err := rows.Scan(&re.MessageID, &re.UserID, &re.Emoji, &re.CreatedAt); err != nil {
			return nil, err
		}
		reactions = append(reactions, re)
	}
	return reactions, rows.Err()
}

// hydrate attaches reactions and receipts to the given messages in two
// batched queries.
func (r *PgChatRepository) hydrate(ctx context.Context, msgs []*chat.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(msgs))
	byID := make(map[string]*chat.Message, len(msgs))
	for _, m := range msgs {
		m.Reactions = []chat.Reaction{}
		ids = append(ids, m.ID)
		byID[m.ID] = m
	}

	rows, err := r.pool.Query(ctx, `
		SELECT message_id::text, user_id, emoji, created_at
		FROM chat.reaction
		WHERE message_id::text = ANY($1)
		ORDER BY created_at, user_id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var re chat.Reaction
		if err := rows.Scan(&re.MessageID, &re.UserID, &re.Emoji, &re.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		if m := byID[re.MessageID]; m != nil {
			m.Reactions = append(m.Reactions, re)
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return rows.Err()
	}

	rows, err = r.pool.Query(ctx, `
		SELECT message_id::text, user_id, read, read_at
		FROM chat.receipt
		WHERE message_id::text = ANY($1)
		ORDER BY user_id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rc chat.Receipt
		if err := rows.Scan(&rc.MessageID, &rc.UserID, &rc.Read, &rc.ReadAt); err != nil {
			return err
		}
		if m := byID[rc.MessageID]; m != nil {
			m.Receipts = append(m.Receipts, rc)
		}
	}
	return rows.Err()
}
