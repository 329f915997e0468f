package messaging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const memoryBuffer = 256

// Memory is an in-process message bus. Every consumer group registered on a
// topic receives its own copy of each message; consumers that share a group
// compete for it.
type Memory struct {
	seq    *atomic.Uint64
	closed *atomic.Bool
	done   chan struct{}

	mu     sync.RWMutex
	groups map[string]map[string]chan *message
}

// NewMemory constructs an in-process messaging client.
func NewMemory() *Memory {
	return &Memory{
		seq:    atomic.NewUint64(0),
		closed: atomic.NewBool(false),
		done:   make(chan struct{}),
		groups: map[string]map[string]chan *message{},
	}
}

// Close stops all running consumers. Pending messages are dropped.
func (m *Memory) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	close(m.done)
	return nil
}

// Publish fans the message out to every group subscribed to destination.
// Publishing to a topic without consumers is a no-op.
func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}
	if m.closed.Load() {
		return PublishResult{}, io.ErrClosedPipe
	}

	out := &message{
		body:      append([]byte(nil), msg.Body...),
		headers:   append([]Header(nil), msg.Headers...),
		id:        strconv.FormatUint(m.seq.Inc(), 10),
		topic:     destination,
		timestamp: time.Now(),
	}

	m.mu.RLock()
	chans := make([]chan *message, 0, len(m.groups[destination]))
	for _, ch := range m.groups[destination] {
		chans = append(chans, ch)
	}
	m.mu.RUnlock()

	for _, ch := range chans {
		select {
		case ch <- out:
		case <-ctx.Done():
			return PublishResult{}, ctx.Err()
		case <-m.done:
			return PublishResult{}, io.ErrClosedPipe
		}
	}

	return PublishResult{MessageID: out.id, Topic: destination, Timestamp: out.timestamp}, nil
}

// Consume runs handler for messages published to source until ctx is done or
// the bus is closed. Messages whose handler fails are logged and dropped.
func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, source, handler); err != nil {
		return err
	}
	if m.closed.Load() {
		return io.ErrClosedPipe
	}

	co := newConsumeOptions(opts...)
	ch := m.subscribe(source, co.group)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case msg := <-ch:
					if err := handleSafely(ctx, "memory", handler, msg); err != nil {
						slog.WarnContext(ctx, "memory message handler failed", "topic", source, "message_id", msg.id, "error", err)
					}
				}
			}
		})
	}
	wg.Wait()

	if m.closed.Load() {
		return nil
	}
	return ctx.Err()
}

func (m *Memory) subscribe(topic, group string) chan *message {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.groups[topic] == nil {
		m.groups[topic] = map[string]chan *message{}
	}
	ch, ok := m.groups[topic][group]
	if !ok {
		ch = make(chan *message, memoryBuffer)
		m.groups[topic][group] = ch
	}
	return ch
}

func (m *Memory) subscribers(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.groups[topic])
}
