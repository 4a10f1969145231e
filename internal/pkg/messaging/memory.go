package messaging

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const memoryBuffer = 64

// ErrQueueFull is returned by Memory.Publish when a consumer group has fallen
// a full buffer behind.
var ErrQueueFull = errors.New("messaging: memory queue is full")

type memoryGroup struct {
	ch   chan Message
	refs int
}

// Memory is an in-process bus. Messages published while no consumer is
// attached to a topic are dropped. Publish never blocks.
type Memory struct {
	seq atomic.Uint64

	mu     sync.RWMutex
	topics map[string]map[string]*memoryGroup
	closed bool
	done   chan struct{}
}

// NewMemory returns an empty in-process bus.
func NewMemory() *Memory {
	return &Memory{
		topics: map[string]map[string]*memoryGroup{},
		done:   make(chan struct{}),
	}
}

// Publish fans msg out to every group attached to topic.
func (m *Memory) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	msg.Topic = topic
	if msg.ID == "" {
		msg.ID = strconv.FormatUint(m.seq.Add(1), 10)
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	groups := make([]*memoryGroup, 0, len(m.topics[topic]))
	for _, g := range m.topics[topic] {
		groups = append(groups, g)
	}
	m.mu.RUnlock()

	// a group whose queue is full loses the message, the others still get it
	var err error
	for _, g := range groups {
		select {
		case g.ch <- msg:
		default:
			err = ErrQueueFull
		}
	}

	return err
}

// Consume attaches handler to topic and blocks until ctx is done or the bus
// is closed.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validate(ctx, topic, handler); err != nil {
		return err
	}

	co := newConsumeOptions(opts...)
	key, g, err := m.attach(topic, co.group)
	if err != nil {
		return err
	}
	defer m.detach(topic, key)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case msg := <-g.ch:
					//nolint:errcheck // in-process bus has no redelivery
					_ = callHandlerWithRecover(ctx, DriverMemory, handler, msg)
				}
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// Close stops every consumer.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory) attach(topic, group string) (string, *memoryGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", nil, ErrClosed
	}

	groups, ok := m.topics[topic]
	if !ok {
		groups = map[string]*memoryGroup{}
		m.topics[topic] = groups
	}

	// Ungrouped consumers each get a private queue.
	key := group
	if key == "" {
		key = "_" + strconv.FormatUint(m.seq.Add(1), 10)
	}

	g, ok := groups[key]
	if !ok {
		g = &memoryGroup{ch: make(chan Message, memoryBuffer)}
		groups[key] = g
	}
	g.refs++

	return key, g, nil
}

func (m *Memory) detach(topic, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	groups := m.topics[topic]
	if g, ok := groups[key]; ok {
		g.refs--
		if g.refs <= 0 {
			delete(groups, key)
		}
	}
	if len(groups) == 0 {
		delete(m.topics, topic)
	}
}

func (m *Memory) consumers(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, g := range m.topics[topic] {
		n += g.refs
	}
	return n
}
