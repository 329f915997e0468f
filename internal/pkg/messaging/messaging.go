package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrUnsupported is returned when a feature is not supported by the selected broker.
	ErrUnsupported = errors.New("pkgmessage: unsupported operation")
	// ErrDestinationRequired is returned when the topic or subject is empty.
	ErrDestinationRequired = errors.New("pkgmessage: destination is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("pkgmessage: handler is required")
)

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a destination (topic/subject).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes messages from a source and blocks until ctx is done or
// the client is closed.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
//
// A nil return acknowledges the message. A non-nil error asks the broker to
// redeliver it when the broker supports redelivery.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage represents a broker-agnostic message to be published.
type OutgoingMessage struct {
	Body []byte
	// Key is used by Kafka for partitioning and by Pub/Sub as ordering key.
	Key     []byte
	Headers []Header
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries optional broker-specific publish metadata.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	Body() []byte
	// Headers is empty for brokers without header support (NSQ).
	Headers() []Header
	ID() string
	Topic() string
	Timestamp() time.Time
}

// HeaderValue returns the first header value stored under key.
func HeaderValue(headers []Header, key string) (string, bool) {
	for i := range headers {
		if headers[i].Key == key {
			return string(headers[i].Value), true
		}
	}
	return "", false
}

type ConsumeOption func(*consumeOptions)

type consumeOptions struct {
	group       string
	concurrency int
	maxInFlight int
}

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	co := consumeOptions{concurrency: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	if co.concurrency < 1 {
		co.concurrency = 1
	}
	return co
}

// WithGroup sets the consumer group. It maps to the Kafka group ID, the NATS
// queue group, the NSQ channel and the Pub/Sub subscription.
func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

// WithConcurrency sets how many handlers may run at once.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}

// WithMaxInFlight limits outstanding messages for NSQ and Pub/Sub.
func WithMaxInFlight(n int) ConsumeOption {
	return func(o *consumeOptions) { o.maxInFlight = n }
}

type message struct {
	body      []byte
	headers   []Header
	id        string
	topic     string
	timestamp time.Time
}

func (m *message) Body() []byte         { return m.body }
func (m *message) Headers() []Header    { return m.headers }
func (m *message) ID() string           { return m.id }
func (m *message) Topic() string        { return m.topic }
func (m *message) Timestamp() time.Time { return m.timestamp }

func validateConsume(ctx context.Context, source string, handler Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}
