// Package throttle provides atomic, expiring attempt counters.
//
// Each Increment re-arms the expiry, so a key disappears only after a full
// quiet window. Stores must be atomic across goroutines and, for Redis, across
// processes sharing the same server.
package throttle

import (
	"context"
	"time"
)

// Counter is an integer counter store keyed by string.
type Counter interface {
	// Increment adds amount (starting from zero when absent), re-arms ttl and
	// returns the new value.
	Increment(ctx context.Context, key string, amount int64, ttl time.Duration) (int64, error)
	// Get returns the current value or zero when absent.
	Get(ctx context.Context, key string) (int64, error)
	// Reset removes the key.
	Reset(ctx context.Context, key string) error
}
