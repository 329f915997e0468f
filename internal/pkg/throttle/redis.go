package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var incrementScript = redis.NewScript(`
local n = redis.call('INCRBY', KEYS[1], ARGV[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return n
`)

// Redis stores counters in Redis. INCRBY and PEXPIRE run in one script so no
// increment can be observed without its expiry.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis returns a Redis counter store; prefix is prepended to every key.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Increment(ctx context.Context, key string, amount int64, ttl time.Duration) (int64, error) {
	n, err := incrementScript.Run(ctx, r.client, []string{r.prefix + key}, amount, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("throttle: increment %q: %w", key, err)
	}

	return n, nil
}

func (r *Redis) Get(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, r.prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("throttle: get %q: %w", key, err)
	}

	return n, nil
}

func (r *Redis) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("throttle: reset %q: %w", key, err)
	}

	return nil
}
