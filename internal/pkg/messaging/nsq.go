package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nsqio/go-nsq"
)

var (
	// ErrNSQChannelRequired is returned when no group/channel is provided.
	ErrNSQChannelRequired = errors.New("pkgmessage: nsq channel is required")
	// ErrNSQProducerAddrRequired is returned when the producer address is missing.
	ErrNSQProducerAddrRequired = errors.New("pkgmessage: nsq producer address is required")
	// ErrNSQConsumerAddrsRequired is returned when no nsqd/lookupd consumer addresses are configured.
	ErrNSQConsumerAddrsRequired = errors.New("pkgmessage: nsq consumer nsqd/lookupd addresses are required")
)

// NSQConfig configures the NSQ implementation.
type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string
}

// NSQ is a messaging implementation backed by NSQ. NSQ has no message
// headers, so published headers are dropped.
type NSQ struct {
	producer *nsq.Producer

	nsqdAddrs    []string
	lookupdAddrs []string

	mu        sync.Mutex
	consumers []*nsq.Consumer
	closed    bool
}

// NewNSQ constructs an NSQ messaging client.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	var producer *nsq.Producer
	if cfg.ProducerAddr != "" {
		p, err := nsq.NewProducer(cfg.ProducerAddr, nsq.NewConfig())
		if err != nil {
			return nil, fmt.Errorf("pkgmessage: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		producer = p
	}

	return &NSQ{
		producer:     producer,
		nsqdAddrs:    append([]string{}, cfg.ConsumerNSQDAddrs...),
		lookupdAddrs: append([]string{}, cfg.ConsumerLookupdAddrs...),
	}, nil
}

// Close stops NSQ consumers and the producer.
func (n *NSQ) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	consumers := n.consumers
	n.consumers = nil
	n.mu.Unlock()

	for _, c := range consumers {
		c.Stop()
		<-c.StopChan
	}
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

// Publish sends a message to an NSQ topic.
func (n *NSQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}
	if n.producer == nil {
		return PublishResult{}, ErrNSQProducerAddrRequired
	}
	if n.isClosed() {
		return PublishResult{}, io.ErrClosedPipe
	}

	if err := n.producer.Publish(destination, msg.Body); err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: nsq publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

// Consume reads a topic through the channel named by WithGroup. A failed
// handler requeues the message.
func (n *NSQ) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, source, handler); err != nil {
		return err
	}
	if len(n.nsqdAddrs) == 0 && len(n.lookupdAddrs) == 0 {
		return ErrNSQConsumerAddrsRequired
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrNSQChannelRequired
	}

	cfg := nsq.NewConfig()
	cfg.MaxInFlight = max(co.maxInFlight, co.concurrency)

	consumer, err := nsq.NewConsumer(source, co.group, cfg)
	if err != nil {
		return fmt.Errorf("pkgmessage: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)
	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		return handleSafely(ctx, "nsq", handler, &message{
			body:      m.Body,
			id:        string(m.ID[:]),
			topic:     source,
			timestamp: time.Unix(0, m.Timestamp),
		})
	}), co.concurrency)

	if err := n.addConsumer(consumer); err != nil {
		stopNSQConsumer(consumer)
		return err
	}
	if err := n.connect(consumer); err != nil {
		stopNSQConsumer(consumer)
		return err
	}

	select {
	case <-ctx.Done():
		stopNSQConsumer(consumer)
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

func (n *NSQ) isClosed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

func (n *NSQ) addConsumer(consumer *nsq.Consumer) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return io.ErrClosedPipe
	}
	n.consumers = append(n.consumers, consumer)
	return nil
}

func (n *NSQ) connect(consumer *nsq.Consumer) error {
	if len(n.lookupdAddrs) > 0 {
		if err := consumer.ConnectToNSQLookupds(n.lookupdAddrs); err != nil {
			return fmt.Errorf("pkgmessage: nsq connect lookupd: %w", err)
		}
		return nil
	}

	if err := consumer.ConnectToNSQDs(n.nsqdAddrs); err != nil {
		return fmt.Errorf("pkgmessage: nsq connect nsqd: %w", err)
	}
	return nil
}

func stopNSQConsumer(consumer *nsq.Consumer) {
	consumer.Stop()
	<-consumer.StopChan
}
