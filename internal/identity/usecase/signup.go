package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/safemeet/internal/identity/entity"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

type SignupInput struct {
	Identifier    string `validate:"required,identifier"`
	Password      string `validate:"required,password"`
	FullName      string `validate:"omitempty,max=100,alphaspace"`
	Phone         string `validate:"omitempty,e164"`
	DeliveryToken string `validate:"omitempty,max=4096"`
}

var errOTPNotVerified = goerror.NewRejection("OTP not verified")

// Signup sets the password and profile of an identity whose OTP has been
// verified.
func (s *Usecase) Signup(ctx context.Context, in SignupInput) error {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	in.Identifier = credential.NormalizeIdentifier(in.Identifier)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	storeCtx, cancel := s.outbound(ctx)
	defer cancel()

	identity, err := s.repoStore.FindByIdentifier(storeCtx, in.Identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "signup for unknown identifier", "identifier", in.Identifier)
		return errOTPNotVerified
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find identity", "identifier", in.Identifier, "error", err)
		return goerror.NewServer(err)
	}

	if entity.VerificationStateOf(identity.OTPVerified) != entity.VerificationVerified {
		slog.WarnContext(ctx, "signup before otp verification", "identifier", in.Identifier)
		return errOTPNotVerified
	}

	hashed, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	passwordHash := string(hashed)
	fields := credential.Fields{PasswordHash: &passwordHash}
	if in.FullName != "" {
		fields.FullName = &in.FullName
	}
	if in.Phone != "" {
		fields.Phone = &in.Phone
	}
	if in.DeliveryToken != "" {
		fields.DeliveryToken = &in.DeliveryToken
	}

	// OTP columns stay out of the write so a concurrent issue keeps its demotion
	identity, err = s.repoStore.Upsert(storeCtx, in.Identifier, fields)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert signup", "identifier", in.Identifier, "error", err)
		return goerror.NewServer(err)
	}

	s.afterCommit(ctx, "identity.signup_completed", func(ctx context.Context) error {
		return s.repoMessaging.PublishSignupCompleted(ctx, SignupCompletedEvent{
			Identifier: identity.Identifier,
			FullName:   identity.FullName,
		})
	})

	return nil
}
