package realtime

import (
	"sync"
	"time"
)

// TypingTracker keeps the ephemeral (room, user) typing state. Signals are
// relayed, never persisted; expiry is client-driven, the server only records
// the last start so stale entries can be filtered on read.
type TypingTracker struct {
	mu     sync.Mutex
	typing map[string]map[string]time.Time // room -> userID -> started at
}

// NewTypingTracker constructs an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{typing: make(map[string]map[string]time.Time)}
}

// Start records that the user began typing in the room.
func (t *TypingTracker) Start(room, userID string) {
	t.mu.Lock()
	users := t.typing[room]
	if users == nil {
		users = make(map[string]time.Time)
		t.typing[room] = users
	}
	users[userID] = time.Now()
	t.mu.Unlock()
}

// Stop clears the user's typing state for the room. No-op if absent.
func (t *TypingTracker) Stop(room, userID string) {
	t.mu.Lock()
	if users := t.typing[room]; users != nil {
		delete(users, userID)
		if len(users) == 0 {
			delete(t.typing, room)
		}
	}
	t.mu.Unlock()
}

// Active returns users whose typing signal started within the window.
func (t *TypingTracker) Active(room string, window time.Duration) []string {
	cutoff := time.Now().Add(-window)
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for userID, started := range t.typing[room] {
		if started.After(cutoff) {
			out = append(out, userID)
		}
	}
	return out
}
