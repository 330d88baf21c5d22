package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"legato/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers messages in memory and writes them from a single goroutine
// so publishing never blocks the request path.
type Producer struct {
	w       messageWriter
	brokers []string
	service string
	logger  *log.Logger
	inbox   chan kafka.Message
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// ErrProducerClosed is returned by publishes that arrive after Close.
var ErrProducerClosed = errors.New("events: producer closed")

func NewProducer(brokers []string, service string, buf int, logger *log.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicOrderPlaced,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	p := newProducer(w, service, buf, logger)
	p.brokers = brokers
	return p
}

func newProducer(w messageWriter, service string, buf int, logger *log.Logger) *Producer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Producer{
		w:       w,
		service: service,
		logger:  logger,
		inbox:   make(chan kafka.Message, buf),
		done:    make(chan struct{}),
	}
}

// Start runs the write loop until Close is called.
func (p *Producer) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				p.logger.Printf("events: write key=%s error=%v", m.Key, err)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			p.logger.Printf("events: close writer error=%v", err)
		}
	}()
}

// PublishOrderPlaced enqueues an OrderPlaced event. It fails when the buffer
// is full, the producer is closed or the event cannot be encoded.
func (p *Producer) PublishOrderPlaced(_ context.Context, order domain.Order) error {
	ev, err := NewOrderPlaced(p.service, order)
	if err != nil {
		return err
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("%w: dropping %s for order %s", ErrProducerClosed, EventOrderPlaced, order.ID)
	}
	select {
	case p.inbox <- msg:
		return nil
	default:
		return fmt.Errorf("events: buffer full, dropping %s for order %s", EventOrderPlaced, order.ID)
	}
}

// Close flushes buffered messages and waits for the writer to close.
// Publishes racing with Close either land in the buffer or get
// ErrProducerClosed.
func (p *Producer) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.done
}

// Ping dials the brokers in order and succeeds on the first that answers.
func (p *Producer) Ping(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("events: no brokers configured")
	}
	var lastErr error
	for _, addr := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = conn.Brokers()
		_ = conn.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("events: no broker reachable: %w", lastErr)
}

// Noop discards events. It is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, domain.Order) error { return nil }
