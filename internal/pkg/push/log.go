package push

import (
	"context"
	"log/slog"
)

type generator interface {
	Generate() string
}

// Log is a driver that logs notifications instead of sending them.
type Log struct {
	uuid generator
}

// NewLog returns a logging driver; MessageIDs come from gen.
func NewLog(gen generator) *Log {
	return &Log{uuid: gen}
}

// Send logs msg and returns a local message ID.
func (l *Log) Send(ctx context.Context, msg Message) (Result, error) {
	if msg.Token == "" {
		return Result{}, ErrTokenRequired
	}

	id := "log/" + l.uuid.Generate()
	slog.InfoContext(ctx, "push not sent, log driver", "message_id", id, "title", msg.Title)

	return Result{MessageID: id}, nil
}

// Enabled implements Push.
func (l *Log) Enabled() bool { return true }

// Close implements io.Closer.
func (l *Log) Close() error { return nil }

// Disabled rejects every send with ErrDisabled.
type Disabled struct{}

// Send implements Push.
func (Disabled) Send(context.Context, Message) (Result, error) { return Result{}, ErrDisabled }

// Enabled implements Push.
func (Disabled) Enabled() bool { return false }

// Close implements io.Closer.
func (Disabled) Close() error { return nil }
