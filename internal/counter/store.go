// Package counter provides the ephemeral TTL counters backing the rate
// limiter and the login lockout. Stores only ever restrict access; callers
// must treat a store failure as "not limited".
package counter

import (
	"context"
	"time"
)

// Store is a key-value counter with TTL semantics. Incr must be atomic
// under concurrent access for the same key: slight over-counting under
// extreme races is tolerable, under-counting is not.
type Store interface {
	// Incr increments the counter and resets its expiry to ttl, returning
	// the post-increment value.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Get returns the current value, or 0 when the key is absent or
	// expired.
	Get(ctx context.Context, key string) (int64, error)
	// Reset deletes the counter.
	Reset(ctx context.Context, key string) error
}
