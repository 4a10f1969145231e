package messaging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when brokers are not provided.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

const kafkaDefaultGroup = "default"

// KafkaConfig configures the Kafka implementation.
type KafkaConfig struct {
	// Brokers is the list of bootstrap brokers.
	Brokers []string
	// Dialer is optional (TLS/SASL).
	Dialer *kafka.Dialer
}

// Kafka is a messaging implementation backed by segmentio/kafka-go.
type Kafka struct {
	cfg KafkaConfig

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers map[*kafka.Reader]struct{}
	closed  bool
}

// NewKafka constructs a Kafka client. Connections are opened lazily.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		cfg:     cfg,
		writers: map[string]*kafka.Writer{},
		readers: map[*kafka.Reader]struct{}{},
	}, nil
}

// Close closes all writers and readers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil
	}
	k.closed = true

	var err error
	for r := range k.readers {
		err = errors.Join(err, r.Close())
	}
	for _, w := range k.writers {
		err = errors.Join(err, w.Close())
	}
	k.readers, k.writers = nil, nil

	return err
}

// Publish writes msg to topic, keyed by msg.ID.
func (k *Kafka) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	w, err := k.writer(topic)
	if err != nil {
		return err
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	kmsg := kafka.Message{Key: []byte(msg.ID), Value: msg.Body, Time: ts}
	for key, v := range msg.Headers {
		kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	if err := w.WriteMessages(ctx, kmsg); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return nil
}

// Consume reads topic within a consumer group and commits each message after
// the handler succeeds. A handler error stops the consumer so the message is
// redelivered after rebalance.
func (k *Kafka) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validate(ctx, topic, handler); err != nil {
		return err
	}

	co := newConsumeOptions(opts...)
	group := co.group
	if group == "" {
		group = kafkaDefaultGroup
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.cfg.Brokers,
		GroupID:  group,
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   k.cfg.Dialer,
	})
	if err := k.track(r); err != nil {
		return errors.Join(err, r.Close())
	}
	defer k.untrack(r)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgCh := make(chan kafka.Message)
	errCh := make(chan error, co.concurrency+1)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for m := range msgCh {
				if err := callHandlerWithRecover(ctx, DriverKafka, handler, fromKafka(m)); err != nil {
					errCh <- err
					cancel()
					return
				}
				if err := r.CommitMessages(ctx, m); err != nil {
					errCh <- err
					cancel()
					return
				}
			}
		})
	}

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			errCh <- err
			break
		}
		select {
		case msgCh <- m:
			continue
		case <-ctx.Done():
			errCh <- ctx.Err()
		}
		break
	}
	close(msgCh)
	wg.Wait()

	err := <-errCh
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("messaging: kafka consume: %w", err)
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, ErrClosed
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(k.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	if k.cfg.Dialer != nil {
		w.Transport = &kafka.Transport{TLS: k.cfg.Dialer.TLS, SASL: k.cfg.Dialer.SASLMechanism}
	}
	k.writers[topic] = w

	return w, nil
}

func (k *Kafka) track(r *kafka.Reader) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return ErrClosed
	}
	k.readers[r] = struct{}{}
	return nil
}

func (k *Kafka) untrack(r *kafka.Reader) {
	k.mu.Lock()
	_, owned := k.readers[r]
	delete(k.readers, r)
	k.mu.Unlock()

	if owned {
		//nolint:errcheck // best effort on shutdown
		_ = r.Close()
	}
}

func fromKafka(m kafka.Message) Message {
	msg := Message{
		ID:        m.Topic + "/" + strconv.Itoa(m.Partition) + "/" + strconv.FormatInt(m.Offset, 10),
		Topic:     m.Topic,
		Body:      m.Value,
		Timestamp: m.Time,
	}
	if len(m.Key) > 0 {
		msg.ID = string(m.Key)
	}
	if len(m.Headers) > 0 {
		msg.Headers = make(map[string]string, len(m.Headers))
		for _, h := range m.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}
	}
	return msg
}
