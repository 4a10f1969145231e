// Package idempotency deduplicates side-effecting requests keyed by a
// client-supplied key, storing each key's state and result in redis.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrAlreadyInProgress is returned while another caller holds the key.
	ErrAlreadyInProgress = errors.New("operation already in progress")
	// ErrInvalidState is returned when the stored record cannot be decoded.
	ErrInvalidState = errors.New("invalid state")
)

// State is the lifecycle of a key.
type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // operation already in progress
	StateCompleted  State = "completed"   // operation already completed
)

func (s State) String() string {
	return string(s)
}

// Record is what is stored under a key.
type Record struct {
	State  State           `json:"state"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Idempotency guards an operation by key.
type Idempotency interface {
	// Exec runs fn once per key. A completed key replays its stored result
	// with replayed=true; a key in flight fails with ErrAlreadyInProgress.
	// A failed fn releases the key so the caller may retry. The result must
	// be JSON.
	Exec(ctx context.Context, key string, fn func(context.Context) ([]byte, error), opts ...Option) (result []byte, replayed bool, err error)
}

// StateTracker implements Idempotency on redis.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New returns a tracker storing keys under the "idempotency:" prefix.
func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{
		client: client,
		prefix: "idempotency:",
	}
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

// Option tunes Exec.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an in-flight claim lives.
func WithLockDuration(lockDuration time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = lockDuration
	}
}

// WithStateTTL sets how long a completed result is replayed.
func WithStateTTL(stateTTL time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = stateTTL
	}
}

// Acquire tries to claim key. StateNone means the caller now owns it.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (Record, error) {
	fk := s.prefix + key

	claim, err := json.Marshal(Record{State: StateInProgress})
	if err != nil {
		return Record{}, err
	}

	acquired, err := s.client.SetNX(ctx, fk, claim, lockDuration).Result()
	if err != nil {
		return Record{}, err
	}
	if acquired {
		return Record{State: StateNone}, nil
	}

	raw, err := s.client.Get(ctx, fk).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Acquire(ctx, key, lockDuration)
	}
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	switch rec.State {
	case StateInProgress, StateCompleted:
		return rec, nil
	default:
		return Record{}, ErrInvalidState
	}
}

// MarkCompleted stores result for replay.
func (s *StateTracker) MarkCompleted(ctx context.Context, key string, result []byte, ttl time.Duration) error {
	raw, err := json.Marshal(Record{State: StateCompleted, Result: result})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, raw, ttl).Err()
}

// Release forgets key.
func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Exec implements Idempotency.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) ([]byte, error), opts ...Option) ([]byte, bool, error) {
	execOpt := &execOptions{
		lockDuration: defaultLockDuration,
		stateTTL:     defaultStateTTL,
	}
	for _, opt := range opts {
		opt(execOpt)
	}
	if execOpt.lockDuration <= 0 {
		execOpt.lockDuration = defaultLockDuration
	}
	if execOpt.stateTTL <= 0 {
		execOpt.stateTTL = defaultStateTTL
	}

	rec, err := s.Acquire(ctx, key, execOpt.lockDuration)
	if err != nil {
		return nil, false, err
	}

	switch rec.State {
	case StateInProgress:
		return nil, false, ErrAlreadyInProgress
	case StateCompleted:
		return rec.Result, true, nil
	}

	result, err := fn(ctx)
	if err != nil {
		if relErr := s.Release(context.WithoutCancel(ctx), key); relErr != nil {
			return nil, false, errors.Join(err, relErr)
		}
		return nil, false, err
	}

	if err := s.MarkCompleted(ctx, key, result, execOpt.stateTTL); err != nil {
		return nil, false, err
	}

	return result, false, nil
}
