package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by messaging.driver.
const (
	DriverMemory       = "memory"
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions carries the per-driver blocks of the messaging.* config.
// Only the block of the selected driver is read.
type FactoryOptions struct {
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

// NewFromDriver builds the bus named by driver. An empty driver selects the
// memory bus, which is what tests and single-process deployments run on.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	var (
		m   Messaging
		err error
	)

	switch name := strings.ToLower(strings.TrimSpace(driver)); name {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverNSQ:
		m, err = NewNSQ(opts.NSQ)
	case DriverKafka:
		m, err = NewKafka(opts.Kafka)
	case DriverNATS:
		m, err = NewNATS(opts.NATS)
	case DriverGooglePubSub:
		m, err = NewPubSub(ctx, opts.PubSub)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("messaging: %s: %w", driver, err)
	}

	return m, nil
}
