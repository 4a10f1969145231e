package mail

import (
	"context"
	"errors"
	"io"
	"slices"
)

var (
	// ErrNoRecipients is returned when To/Cc/Bcc are all empty.
	ErrNoRecipients = errors.New("no recipients provided")
	// ErrNoSender is returned when both Message.From and the configured default From are empty.
	ErrNoSender = errors.New("no sender provided")
)

// Message represents an email payload.
//
// Fields are provider-agnostic so they can be sent using SMTP or other
// delivery mechanisms.
type Message struct {
	// From is an optional explicit sender; fallback depends on implementation.
	From string
	// To lists required recipients.
	To []string
	// Cc lists carbon copy recipients.
	Cc []string
	// Bcc lists blind carbon copy recipients.
	Bcc []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body; preferred when HTMLBody is empty.
	TextBody string
	// HTMLBody is the optional HTML body.
	HTMLBody string
}

// Mail abstracts an email provider (SMTP, third-party API, etc).
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}

// envelope resolves the sender and the full recipient list of msg.
func envelope(msg Message, defaultFrom string) (string, []string, error) {
	recipients := slices.Concat(msg.To, msg.Cc, msg.Bcc)
	if len(recipients) == 0 {
		return "", nil, ErrNoRecipients
	}

	from := msg.From
	if from == "" {
		from = defaultFrom
	}
	if from == "" {
		return "", nil, ErrNoSender
	}

	return from, recipients, nil
}
