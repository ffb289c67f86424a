package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	cache "go-banter/internal/infrastructure/cache/port"
	chat "go-banter/internal/pkg/chat/application/domain"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

const participantsTTL = 5 * time.Minute

// CachedChatRepository decorates a ChatRepository with a Redis-backed cache
// for the participant set of a conversation. Membership checks run on every
// send and every socket room join, so they are the hottest read path by far.
// Everything else passes through untouched.
//
// Cache errors never fail a request: on any cache trouble we log and fall
// back to the inner repository.
type CachedChatRepository struct {
	repository.ChatRepository

	cache cache.Cache
}

func NewCachedChatRepository(inner repository.ChatRepository, c cache.Cache) *CachedChatRepository {
	return &CachedChatRepository{ChatRepository: inner, cache: c}
}

func participantsKey(conversationID string) string {
	return "chat:participants:" + conversationID
}

func (r *CachedChatRepository) ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	if r.cache != nil {
		if raw, err := r.cache.Get(ctx, participantsKey(conversationID)); err == nil {
			var ids []string
			if err := json.Unmarshal([]byte(raw), &ids); err == nil {
				return ids, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Printf("participants cache: get %s: %v", conversationID, err)
		}
	}

	ids, err := r.ChatRepository.ListParticipantIDs(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if raw, err := json.Marshal(ids); err == nil {
			if err := r.cache.Set(ctx, participantsKey(conversationID), string(raw), participantsTTL); err != nil {
				log.Printf("participants cache: set %s: %v", conversationID, err)
			}
		}
	}
	return ids, nil
}

func (r *CachedChatRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	ids, err := r.ListParticipantIDs(ctx, conversationID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// CreateGroup invalidates eagerly even though a fresh id cannot be cached yet;
// it keeps the write path uniform with future membership mutations.
func (r *CachedChatRepository) CreateGroup(ctx context.Context, name string, creatorID string, memberIDs []string) (*chat.Conversation, error) {
	conv, err := r.ChatRepository.CreateGroup(ctx, name, creatorID, memberIDs)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, conv.ID)
	return conv, nil
}

func (r *CachedChatRepository) GetOrCreateDirect(ctx context.Context, userA, userB string) (*chat.Conversation, bool, error) {
	conv, created, err := r.ChatRepository.GetOrCreateDirect(ctx, userA, userB)
	if err != nil {
		return nil, false, err
	}
	if created {
		r.invalidate(ctx, conv.ID)
	}
	return conv, created, nil
}

func (r *CachedChatRepository) invalidate(ctx context.Context, conversationID string) {
	if r.cache == nil {
		return
	}
	if _, err := r.cache.Del(ctx, participantsKey(conversationID)); err != nil {
		log.Printf("participants cache: del %s: %v", conversationID, err)
	}
}
