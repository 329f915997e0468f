// Package idempotency guards non-repeatable operations behind a client
// supplied key stored in Redis.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("idempotency: operation already in progress")
	ErrAlreadyCompleted  = errors.New("idempotency: operation already completed")
	ErrAlreadyFailed     = errors.New("idempotency: operation already failed")
	ErrInvalidState      = errors.New("idempotency: invalid state")
)

// State is the recorded outcome stored under a key.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Guard runs fn at most once per key within the state TTL.
type Guard interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

type Option func(*execOptions)

// WithLockDuration bounds how long an in-progress marker survives a crash.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long the final state is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// StateTracker implements Guard with SET NX.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{client: client, prefix: "idempotency:"}
}

// Acquire marks key in progress and returns StateNone, or returns the state
// already recorded by an earlier call.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	for range 2 {
		ok, err := s.client.SetNX(ctx, fk, string(StateInProgress), lockDuration).Result()
		if err != nil {
			return "", fmt.Errorf("idempotency: acquire: %w", err)
		}
		if ok {
			return StateNone, nil
		}

		current, err := s.client.Get(ctx, fk).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return "", fmt.Errorf("idempotency: read state: %w", err)
		}

		switch st := State(current); st {
		case StateInProgress, StateCompleted, StateFailed:
			return st, nil
		case StateNone:
			return "", ErrInvalidState
		default:
			return "", ErrInvalidState
		}
	}

	return "", ErrInvalidState
}

func (s *StateTracker) mark(ctx context.Context, key string, st State, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, string(st), ttl).Err()
}

// Exec runs fn once for key. Repeated calls return ErrAlreadyInProgress,
// ErrAlreadyCompleted or ErrAlreadyFailed without running fn. Once fn
// succeeds Exec returns nil even if the completed state cannot be stored.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	case StateNone:
	}

	if err := fn(ctx); err != nil {
		if markErr := s.mark(context.WithoutCancel(ctx), key, StateFailed, o.stateTTL); markErr != nil {
			return errors.Join(err, markErr)
		}
		return err
	}

	// fn already took effect; the in-progress marker still blocks replays
	// until the lock expires.
	if err := s.mark(context.WithoutCancel(ctx), key, StateCompleted, o.stateTTL); err != nil {
		slog.WarnContext(ctx, "failed to record idempotency completion", "key", key, "error", err)
	}

	return nil
}
