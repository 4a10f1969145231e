package push

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrInvalidToken reports that the provider no longer accepts the token.
	ErrInvalidToken = errors.New("push: device token is invalid or unregistered")
	// ErrDisabled is returned by the disabled driver.
	ErrDisabled = errors.New("push: provider is disabled")
	// ErrTokenRequired is returned when Message.Token is empty.
	ErrTokenRequired = errors.New("push: device token is required")
)

// Message is a single-device notification.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Result is the provider acknowledgement.
type Result struct {
	// MessageID is the provider-assigned ID.
	MessageID string
}

// Push delivers notifications to a device.
type Push interface {
	io.Closer
	// Send delivers msg. Dead tokens yield an error wrapping ErrInvalidToken.
	Send(ctx context.Context, msg Message) (Result, error)
	// Enabled reports whether a real provider is configured.
	Enabled() bool
}
