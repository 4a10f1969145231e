package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/safemeet/internal/notification/entity"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
	"github.com/shandysiswandi/safemeet/internal/shared/event"
)

type ConsumeOTPIssuedInput struct {
	Identifier string
	Channel    string
}

type ConsumeSignupCompletedInput struct {
	Identifier string
	FullName   string
}

type ConsumeLoginSucceededInput struct {
	Identifier string
}

// ConsumeOTPIssued confirms an emailed code on the identity's device. Phone
// codes already arrived as a push and are skipped.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if in.Channel == event.ChannelPhone {
		return nil
	}

	return s.confirm(ctx, in.Identifier, entity.OTPSentConfirmation())
}

func (s *Usecase) ConsumeSignupCompleted(ctx context.Context, in ConsumeSignupCompletedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeSignupCompleted")
	defer span.End()

	return s.confirm(ctx, in.Identifier, entity.SignupConfirmation(in.FullName))
}

func (s *Usecase) ConsumeLoginSucceeded(ctx context.Context, in ConsumeLoginSucceededInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeLoginSucceeded")
	defer span.End()

	return s.confirm(ctx, in.Identifier, entity.LoginConfirmation())
}

// confirm sends a best-effort push. Identities without a device and a
// disabled provider are not failures.
func (s *Usecase) confirm(ctx context.Context, identifier string, c entity.Confirmation) error {
	identifier = credential.NormalizeIdentifier(identifier)
	if identifier == "" {
		slog.WarnContext(ctx, "confirmation without identifier", "kind", c.Kind)
		return nil
	}

	_, err := s.deliver(ctx, identifier, push.Message{Title: c.Title, Body: c.Body, Data: c.Data()})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errRecipientNotFound), errors.Is(err, errProviderDisabled):
		slog.InfoContext(ctx, "skipping confirmation", "kind", c.Kind, "identifier", identifier, "reason", err.Error())
		return nil
	default:
		return err
	}
}
