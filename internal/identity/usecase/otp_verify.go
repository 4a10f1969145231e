package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/otp"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

type OTPVerifyInput struct {
	Identifier string `validate:"required,identifier"`
	Code       string `validate:"required,numeric,max=9"`
}

var errInvalidOTP = goerror.NewRejection("Invalid or expired OTP")

// OTPVerify accepts the most recently issued code exactly once. Every failed
// check is reported as the same rejection.
func (s *Usecase) OTPVerify(ctx context.Context, in OTPVerifyInput) error {
	ctx, span := s.startSpan(ctx, "OTPVerify")
	defer span.End()

	in.Identifier = credential.NormalizeIdentifier(in.Identifier)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	storeCtx, cancel := s.outbound(ctx)
	defer cancel()

	identity, err := s.repoStore.FindByIdentifier(storeCtx, in.Identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp verification for unknown identifier", "identifier", in.Identifier)
		return errInvalidOTP
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find identity", "identifier", in.Identifier, "error", err)
		return goerror.NewServer(err)
	}

	if identity.OTPDigest == "" || identity.OTPIssuedAt == nil {
		slog.WarnContext(ctx, "no outstanding otp", "identifier", in.Identifier)
		return errInvalidOTP
	}

	if otp.Expired(*identity.OTPIssuedAt, s.clock.Now(), s.otpTTL()) {
		slog.WarnContext(ctx, "otp expired", "identifier", in.Identifier, "issued_at", identity.OTPIssuedAt)
		return errInvalidOTP
	}

	if !s.hmac.Verify(identity.OTPDigest, in.Code) {
		slog.WarnContext(ctx, "otp not match", "identifier", in.Identifier)
		return errInvalidOTP
	}

	// the digest guard rejects a code that a concurrent issue has replaced
	if _, err := s.repoStore.ConsumeOTP(storeCtx, in.Identifier, identity.OTPDigest); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "otp superseded before it was consumed", "identifier", in.Identifier)
			return errInvalidOTP
		}
		slog.ErrorContext(ctx, "failed to repo consume otp", "identifier", in.Identifier, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
