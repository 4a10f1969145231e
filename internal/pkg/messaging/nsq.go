package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

var (
	// ErrNSQProducerAddrRequired is returned when publishing without a producer address.
	ErrNSQProducerAddrRequired = errors.New("messaging: nsq producer address is required")
	// ErrNSQConsumerAddrsRequired is returned when consuming without nsqd/lookupd addresses.
	ErrNSQConsumerAddrsRequired = errors.New("messaging: nsq consumer nsqd/lookupd addresses are required")
)

// NSQConfig configures the NSQ implementation.
type NSQConfig struct {
	// ProducerAddr is the nsqd TCP address used for publishing.
	ProducerAddr string
	// ConsumerNSQDAddrs are direct nsqd addresses for consumers.
	ConsumerNSQDAddrs []string
	// ConsumerLookupdAddrs are nsqlookupd HTTP addresses; preferred when set.
	ConsumerLookupdAddrs []string
}

// NSQ is a messaging implementation backed by NSQ.
//
// NSQ frames carry no headers, so messages travel as a JSON envelope.
type NSQ struct {
	producer *nsq.Producer
	cfg      NSQConfig

	mu        sync.Mutex
	consumers []*nsq.Consumer
	closed    bool
}

type nsqEnvelope struct {
	ID        string            `json:"id,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      []byte            `json:"body"`
	Timestamp time.Time         `json:"ts"`
}

// NewNSQ constructs an NSQ client. The producer is optional.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	n := &NSQ{cfg: cfg}

	if cfg.ProducerAddr != "" {
		p, err := nsq.NewProducer(cfg.ProducerAddr, nsq.NewConfig())
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}

	return n, nil
}

// Close stops consumers and the producer.
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

// Publish sends msg to topic.
func (n *NSQ) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if n.producer == nil {
		return ErrNSQProducerAddrRequired
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	body, err := json.Marshal(nsqEnvelope{ID: msg.ID, Headers: msg.Headers, Body: msg.Body, Timestamp: ts})
	if err != nil {
		return fmt.Errorf("messaging: nsq encode: %w", err)
	}

	if err := n.producer.Publish(topic, body); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}

	return nil
}

// Consume reads topic on the channel named by WithGroup (default "default").
// Handler errors requeue the message.
func (n *NSQ) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validate(ctx, topic, handler); err != nil {
		return err
	}
	if len(n.cfg.ConsumerNSQDAddrs) == 0 && len(n.cfg.ConsumerLookupdAddrs) == 0 {
		return ErrNSQConsumerAddrsRequired
	}

	co := newConsumeOptions(opts...)
	channel := co.group
	if channel == "" {
		channel = "default"
	}

	ccfg := nsq.NewConfig()
	ccfg.MaxInFlight = max(ccfg.MaxInFlight, co.concurrency)

	consumer, err := nsq.NewConsumer(topic, channel, ccfg)
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)
	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		var env nsqEnvelope
		if err := json.Unmarshal(m.Body, &env); err != nil {
			// Foreign payloads are delivered raw.
			env = nsqEnvelope{Body: m.Body, Timestamp: time.Unix(0, m.Timestamp)}
		}
		if env.ID == "" {
			env.ID = string(m.ID[:])
		}

		return callHandlerWithRecover(ctx, DriverNSQ, handler, Message{
			ID:        env.ID,
			Topic:     topic,
			Body:      env.Body,
			Headers:   env.Headers,
			Timestamp: env.Timestamp,
		})
	}), co.concurrency)

	if err := n.track(consumer); err != nil {
		consumer.Stop()
		return err
	}

	if len(n.cfg.ConsumerLookupdAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.cfg.ConsumerLookupdAddrs)
	} else {
		err = consumer.ConnectToNSQDs(n.cfg.ConsumerNSQDAddrs)
	}
	if err != nil {
		consumer.Stop()
		<-consumer.StopChan
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

func (n *NSQ) track(c *nsq.Consumer) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrClosed
	}
	n.consumers = append(n.consumers, c)
	return nil
}
