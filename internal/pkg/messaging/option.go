package messaging

type consumeOptions struct {
	// group is the competing-consumer name: Kafka group, NATS queue group,
	// NSQ channel, Pub/Sub subscription.
	group string
	// concurrency is the number of parallel handler invocations.
	concurrency int
}

// ConsumeOption configures Consume.
type ConsumeOption func(*consumeOptions)

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	co := consumeOptions{concurrency: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	if co.concurrency <= 0 {
		co.concurrency = 1
	}
	return co
}

// WithGroup sets the consumer group. Consumers sharing a group split the
// stream; different groups each see every message.
func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

// WithConcurrency sets how many handler goroutines process messages in parallel.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}
