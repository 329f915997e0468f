package messaging

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startConsumer(t *testing.T, m *Memory, topic, group string, h Handler) (context.CancelFunc, <-chan error) {
	t.Helper()

	before := m.subscribers(topic)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Consume(ctx, topic, h, WithGroup(group)) }()

	require.Eventually(t, func() bool {
		return m.subscribers(topic) > before
	}, time.Second, 5*time.Millisecond)
	return cancel, done
}

func TestMemory_PublishConsume(t *testing.T) {
	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })

	got := make(chan Message, 1)
	cancel, done := startConsumer(t, m, "otp_audit", "audit", func(_ context.Context, msg Message) error {
		got <- msg
		return nil
	})

	res, err := m.Publish(context.Background(), "otp_audit", OutgoingMessage{
		Body:    []byte(`{"action":7}`),
		Headers: []Header{{Key: "cID", Value: []byte("abc")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "otp_audit", res.Topic)
	assert.NotEmpty(t, res.MessageID)

	select {
	case msg := <-got:
		assert.Equal(t, `{"action":7}`, string(msg.Body()))
		assert.Equal(t, "otp_audit", msg.Topic())
		assert.Equal(t, res.MessageID, msg.ID())
		cid, ok := HeaderValue(msg.Headers(), "cID")
		assert.True(t, ok)
		assert.Equal(t, "abc", cid)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestMemory_FanOutPerGroup(t *testing.T) {
	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })

	var mu sync.Mutex
	seen := map[string]int{}
	handler := func(group string) Handler {
		return func(context.Context, Message) error {
			mu.Lock()
			seen[group]++
			mu.Unlock()
			return nil
		}
	}

	cancelA, _ := startConsumer(t, m, "t", "a", handler("a"))
	defer cancelA()
	cancelB, _ := startConsumer(t, m, "t", "b", handler("b"))
	defer cancelB()

	for range 3 {
		_, err := m.Publish(context.Background(), "t", OutgoingMessage{Body: []byte("x")})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["a"] == 3 && seen["b"] == 3
	}, time.Second, 5*time.Millisecond)
}

func TestMemory_HandlerFailureAndPanicDoNotStopConsumer(t *testing.T) {
	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })

	var mu sync.Mutex
	calls := 0
	cancel, _ := startConsumer(t, m, "t", "g", func(_ context.Context, msg Message) error {
		mu.Lock()
		calls++
		mu.Unlock()
		switch string(msg.Body()) {
		case "fail":
			return errors.New("boom")
		case "panic":
			panic("boom")
		}
		return nil
	})
	defer cancel()

	for _, body := range []string{"fail", "panic", "ok"} {
		_, err := m.Publish(context.Background(), "t", OutgoingMessage{Body: []byte(body)})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 3
	}, time.Second, 5*time.Millisecond)
}

func TestMemory_Close(t *testing.T) {
	m := NewMemory()
	_, done := startConsumer(t, m, "t", "g", func(context.Context, Message) error { return nil })

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.NoError(t, <-done)

	_, err := m.Publish(context.Background(), "t", OutgoingMessage{})
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	err = m.Consume(context.Background(), "t", func(context.Context, Message) error { return nil })
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestMemory_Validation(t *testing.T) {
	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })

	_, err := m.Publish(context.Background(), "", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrDestinationRequired)

	assert.ErrorIs(t, m.Consume(context.Background(), "", func(context.Context, Message) error { return nil }), ErrDestinationRequired)
	assert.ErrorIs(t, m.Consume(context.Background(), "t", nil), ErrHandlerRequired)
}

func TestNewFromDriver(t *testing.T) {
	mq, err := NewFromDriver(context.Background(), "memory", FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, mq)
	require.NoError(t, mq.Close())

	_, err = NewFromDriver(context.Background(), "rabbit", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = NewFromDriver(context.Background(), DriverKafka, FactoryOptions{})
	assert.ErrorIs(t, err, ErrKafkaBrokersRequired)
}
