package adapter

import (
	"context"
	"testing"
	"time"

	cacheport "go-banter/internal/infrastructure/cache/port"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// stubRepo overrides only the methods the cache decorator touches; the
// embedded interface panics on anything else, which is what we want in a test.
type stubRepo struct {
	repository.ChatRepository

	listCalls int
	ids       []string
}

func (s *stubRepo) ListParticipantIDs(_ context.Context, _ string) ([]string, error) {
	s.listCalls++
	return s.ids, nil
}

// mapCache is an in-memory port.Cache. TTLs are ignored; tests control
// freshness by deleting keys.
type mapCache struct {
	data map[string]string
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string]string)} }

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *mapCache) Ping(context.Context) error { return nil }
func (c *mapCache) Close() error               { return nil }

func TestCachedParticipantsServedFromCache(t *testing.T) {
	inner := &stubRepo{ids: []string{"alice", "bob"}}
	repo := NewCachedChatRepository(inner, newMapCache())

	for i := 0; i < 3; i++ {
		ids, err := repo.ListParticipantIDs(context.Background(), "c1")
		if err != nil {
			t.Fatalf("ListParticipantIDs: %v", err)
		}
		if len(ids) != 2 {
			t.Fatalf("ids = %v, want 2 entries", ids)
		}
	}
	if inner.listCalls != 1 {
		t.Errorf("inner calls = %d, want 1 (rest from cache)", inner.listCalls)
	}
}

func TestCachedIsParticipantUsesCachedSet(t *testing.T) {
	inner := &stubRepo{ids: []string{"alice", "bob"}}
	repo := NewCachedChatRepository(inner, newMapCache())

	ok, err := repo.IsParticipant(context.Background(), "c1", "bob")
	if err != nil || !ok {
		t.Fatalf("IsParticipant(bob) = %v, %v, want true", ok, err)
	}
	ok, err = repo.IsParticipant(context.Background(), "c1", "mallory")
	if err != nil || ok {
		t.Fatalf("IsParticipant(mallory) = %v, %v, want false", ok, err)
	}
	if inner.listCalls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.listCalls)
	}
}

func TestCachedRepositoryWorksWithoutCache(t *testing.T) {
	inner := &stubRepo{ids: []string{"alice"}}
	repo := NewCachedChatRepository(inner, nil)

	for i := 0; i < 2; i++ {
		if _, err := repo.ListParticipantIDs(context.Background(), "c1"); err != nil {
			t.Fatalf("ListParticipantIDs: %v", err)
		}
	}
	if inner.listCalls != 2 {
		t.Errorf("inner calls = %d, want passthrough on every read", inner.listCalls)
	}
}
