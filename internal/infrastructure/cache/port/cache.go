package port

import (
	"context"
	"time"
)

// Cache is the key-value store the chat layer leans on for hot lookups such
// as conversation participant sets. Values are plain strings; callers own
// their serialization. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value at key, or ErrMiss when the key is absent.
	// Any other error is a transport or server failure.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. A zero or negative ttl stores without
	// expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes the given keys and reports how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Ping verifies connectivity with the backend.
	Ping(ctx context.Context) error

	Close() error
}

// ErrMiss distinguishes an absent key from a failing backend, so callers can
// fall through to the source of truth on a miss but log on real errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
