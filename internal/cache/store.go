package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Store.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// Store is the shared key-value store behind the forum guard, the mention
// roster and the directory cache. Values are opaque bytes; TTL semantics match
// Redis (a zero ttl means no expiry).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	// GetInt returns 0 for a missing counter.
	GetInt(ctx context.Context, key string) (int64, error)
	// IncrWindow atomically increments a counter and arms its TTL when the
	// counter is created, giving a fixed window anchored at the first
	// increment. The returned count includes this increment.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	// TTL returns the remaining lifetime, or a negative duration when the key
	// is missing or has no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Keys returns live keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}
