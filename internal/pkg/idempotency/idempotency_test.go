package idempotency

import (
	"context"
	"errors"
	"net"
	"slices"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var errConnReset = errors.New("redis: connection reset")

// failPlainSet fails every SET that is not SET NX, so Acquire works while
// recording the final state does not.
type failPlainSet struct{}

func (failPlainSet) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (failPlainSet) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "set" && !slices.Contains(cmd.Args(), any("nx")) {
			cmd.SetErr(errConnReset)
			return errConnReset
		}
		return next(ctx, cmd)
	}
}

func (failPlainSet) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func redisOptions(t *testing.T) *redis.Options {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	return opt
}

func TestStateTracker_Exec(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(redisOptions(t))
	t.Cleanup(func() { _ = client.Close() })

	tracker := New(client)

	calls := 0
	run := func(context.Context) error { calls++; return nil }

	require.NoError(t, tracker.Exec(ctx, "generate:1", run))
	assert.ErrorIs(t, tracker.Exec(ctx, "generate:1", run), ErrAlreadyCompleted)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	assert.ErrorIs(t, tracker.Exec(ctx, "generate:2", func(context.Context) error { return boom }), boom)
	assert.ErrorIs(t, tracker.Exec(ctx, "generate:2", run), ErrAlreadyFailed)

	state, err := tracker.Acquire(ctx, "generate:3", 0)
	require.NoError(t, err)
	assert.Equal(t, StateNone, state)
	assert.ErrorIs(t, tracker.Exec(ctx, "generate:3", run), ErrAlreadyInProgress)
}

func TestStateTracker_ExecCompletedMarkFails(t *testing.T) {
	ctx := context.Background()
	opt := redisOptions(t)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })
	client.AddHook(failPlainSet{})

	tracker := New(client)

	calls := 0
	code := ""
	err := tracker.Exec(ctx, "generate:1", func(context.Context) error {
		calls++
		code = "755224"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "755224", code)

	// the in-progress marker still blocks a replay
	err = tracker.Exec(ctx, "generate:1", func(context.Context) error { calls++; return nil })
	assert.ErrorIs(t, err, ErrAlreadyInProgress)
	assert.Equal(t, 1, calls)
}

func TestStateTracker_ExecContextCanceledAfterSuccess(t *testing.T) {
	client := redis.NewClient(redisOptions(t))
	t.Cleanup(func() { _ = client.Close() })

	tracker := New(client)

	ctx, cancel := context.WithCancel(context.Background())
	err := tracker.Exec(ctx, "generate:1", func(context.Context) error {
		cancel()
		return nil
	})
	require.NoError(t, err)

	err = tracker.Exec(context.Background(), "generate:1", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}
