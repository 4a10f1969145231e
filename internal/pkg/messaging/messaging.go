package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrTopicRequired is returned when the topic is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrClosed is returned by operations on a closed client.
	ErrClosed = errors.New("messaging: client is closed")
)

// Message is a broker-agnostic event.
type Message struct {
	// ID is the broker message ID (set on receive, optional on publish).
	ID string
	// Topic is the topic the message was published to.
	Topic string
	// Body is the payload, usually JSON.
	Body []byte
	// Headers carries string metadata such as the correlation ID.
	Headers map[string]string
	// Timestamp is when the message was produced.
	Timestamp time.Time
}

// Header returns the header value for key, or "".
func (m Message) Header(key string) string {
	if m.Headers == nil {
		return ""
	}
	return m.Headers[key]
}

// Handler processes a received message. A nil return acknowledges it; an
// error asks the broker for redelivery where the broker supports it.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg Message) error
}

// Consumer receives messages from a topic until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Messaging is a client that can both publish and consume.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

func validate(ctx context.Context, topic string, handler Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}
