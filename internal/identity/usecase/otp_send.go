package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/safemeet/internal/identity/entity"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

type OTPSendInput struct {
	Identifier    string `validate:"required,identifier"`
	DeliveryToken string `validate:"omitempty,max=4096"`
}

type OTPSendOutput struct {
	Channel   entity.Channel
	ExpiresIn time.Duration
	// Code is only filled when the development echo is switched on.
	Code string
}

// OTPSend issues a fresh code for the identifier, replacing any previous one
// and demoting the identity to UNVERIFIED, then delivers it out of band.
// A delivery failure is reported but the stored code is kept.
func (s *Usecase) OTPSend(ctx context.Context, in OTPSendInput) (*OTPSendOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPSend")
	defer span.End()

	in.Identifier = credential.NormalizeIdentifier(in.Identifier)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	channel := entity.ChannelOf(in.Identifier)
	if channel == entity.ChannelPhone && in.DeliveryToken == "" {
		if err := s.ensureStoredDeliveryToken(ctx, in.Identifier); err != nil {
			return nil, err
		}
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	digest, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	otpDigest := string(digest)
	issuedAt := s.clock.Now()
	verified := false
	fields := credential.Fields{
		OTPDigest:   &otpDigest,
		OTPIssuedAt: &issuedAt,
		OTPVerified: &verified,
	}
	if in.DeliveryToken != "" {
		fields.DeliveryToken = &in.DeliveryToken
	}

	storeCtx, cancel := s.outbound(ctx)
	identity, err := s.repoStore.Upsert(storeCtx, in.Identifier, fields)
	cancel()
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert otp", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.otpTTL()
	deliverCtx, cancel := s.outbound(ctx)
	defer cancel()

	switch channel {
	case entity.ChannelPhone:
		err = s.repoDelivery.SendPushOTP(deliverCtx, identity.DeliveryToken, code, ttl)
	default:
		err = s.repoDelivery.SendEmailOTP(deliverCtx, identity.Identifier, code, ttl)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp", "identifier", in.Identifier, "channel", channel.String(), "error", err)
		if errors.Is(err, push.ErrInvalidToken) {
			s.clearDeadToken(ctx, identity.DeliveryToken)
		}
		return nil, goerror.NewServer(err)
	}

	s.afterCommit(ctx, "identity.otp_issued", func(ctx context.Context) error {
		return s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
			Identifier: identity.Identifier,
			Channel:    channel.String(),
		})
	})

	out := &OTPSendOutput{Channel: channel, ExpiresIn: ttl}
	if s.exposeOTP() {
		out.Code = code
	}

	return out, nil
}

// ensureStoredDeliveryToken rejects phone identifiers that have no device to
// push the code to.
func (s *Usecase) ensureStoredDeliveryToken(ctx context.Context, identifier string) error {
	storeCtx, cancel := s.outbound(ctx)
	defer cancel()

	identity, err := s.repoStore.FindByIdentifier(storeCtx, identifier)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo find identity", "identifier", identifier, "error", err)
		return goerror.NewServer(err)
	}

	if identity == nil || identity.DeliveryToken == "" {
		slog.WarnContext(ctx, "phone identifier has no delivery token", "identifier", identifier)
		return goerror.NewInvalidInput(nil, "deliveryToken", "deliveryToken is required for phone identifiers")
	}

	return nil
}

// clearDeadToken drops a token the push provider no longer recognizes so the
// next send-otp asks the client for a fresh one.
func (s *Usecase) clearDeadToken(ctx context.Context, token string) {
	storeCtx, cancel := s.outbound(context.WithoutCancel(ctx))
	defer cancel()

	n, err := s.repoStore.ClearDeliveryToken(storeCtx, token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo clear delivery token", "error", err)
		return
	}
	slog.InfoContext(ctx, "cleared invalid delivery token", "records", n)
}
