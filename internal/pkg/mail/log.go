package mail

import (
	"context"
	"log/slog"
	"strings"
)

// Log is a Mail implementation that only writes the envelope to slog.
// It is meant for local development where no SMTP server is reachable.
type Log struct {
	defaultFrom string
}

// NewLog returns a logging mailer.
func NewLog(from string) *Log {
	return &Log{defaultFrom: from}
}

// Send logs msg without its bodies.
func (l *Log) Send(ctx context.Context, msg Message) error {
	from, recipients, err := envelope(msg, l.defaultFrom)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "mail not sent, log driver",
		"from", from,
		"to", strings.Join(recipients, ","),
		"subject", msg.Subject,
	)

	return nil
}

// Close implements io.Closer.
func (l *Log) Close() error {
	return nil
}
