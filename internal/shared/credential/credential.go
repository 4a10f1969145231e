// Package credential persists one record per identity (an email address or
// E.164 phone number): its password hash, the outstanding OTP, the
// verification flag and the device token used for push delivery.
//
// All drivers share the same contract. Upsert is atomic per identifier and
// last-writer-wins; a nil field in Fields leaves the stored value untouched.
// ConsumeOTP is a compare-and-set on the stored digest, so a code replaced by
// a newer issue can never be consumed.
package credential

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Identity is the stored record.
type Identity struct {
	ID            int64
	Identifier    string
	PasswordHash  string
	OTPDigest     string
	OTPIssuedAt   *time.Time
	OTPVerified   bool
	DeliveryToken string
	FullName      string
	Phone         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Fields is a partial update applied by Upsert.
type Fields struct {
	PasswordHash  *string
	OTPDigest     *string
	OTPIssuedAt   *time.Time
	OTPVerified   *bool
	DeliveryToken *string
	FullName      *string
	Phone         *string
}

// Store is the persistence contract.
type Store interface {
	io.Closer
	// FindByIdentifier returns goerror.ErrNotFound when no record exists.
	FindByIdentifier(ctx context.Context, identifier string) (*Identity, error)
	// Upsert creates or updates the record for identifier in one atomic step.
	Upsert(ctx context.Context, identifier string, f Fields) (*Identity, error)
	// ConsumeOTP marks the record verified and clears its code, but only while
	// digest is still the stored one. It returns goerror.ErrNotFound otherwise.
	ConsumeOTP(ctx context.Context, identifier, digest string) (*Identity, error)
	// ClearDeliveryToken removes token from whichever records hold it and
	// returns how many were changed.
	ClearDeliveryToken(ctx context.Context, token string) (int64, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

type clocker interface {
	Now() time.Time
}

type idGenerator interface {
	Generate() int64
}

// Deps are the collaborators every driver needs.
type Deps struct {
	Clock      clocker
	ID         idGenerator
	Instrument instrument.Instrumentation
}

func (d Deps) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return d.Instrument.Tracer("shared.credential").Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NormalizeIdentifier trims the identifier and lowercases email addresses.
// E.164 numbers are kept as given.
func NormalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.HasPrefix(identifier, "+") {
		return identifier
	}
	return strings.ToLower(identifier)
}
