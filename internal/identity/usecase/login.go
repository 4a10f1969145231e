package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/safemeet/internal/identity/entity"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

type LoginInput struct {
	Identifier    string `validate:"required,identifier"`
	Password      string `validate:"required,max=72"`
	DeliveryToken string `validate:"omitempty,max=4096"`
}

type LoginOutput struct {
	AccessToken string
}

var errInvalidCredentials = goerror.NewRejection("Invalid credentials")

// Login checks the password of a verified identity and issues an access token.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Identifier = credential.NormalizeIdentifier(in.Identifier)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	storeCtx, cancel := s.outbound(ctx)
	defer cancel()

	identity, err := s.repoStore.FindByIdentifier(storeCtx, in.Identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login for unknown identifier", "identifier", in.Identifier)
		return nil, errInvalidCredentials
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find identity", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	if identity.PasswordHash == "" {
		slog.WarnContext(ctx, "login before signup", "identifier", in.Identifier)
		return nil, errInvalidCredentials
	}

	if !s.password.Verify(identity.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "password not match", "identifier", in.Identifier)
		return nil, errInvalidCredentials
	}

	if entity.VerificationStateOf(identity.OTPVerified) != entity.VerificationVerified {
		slog.WarnContext(ctx, "login before otp verification", "identifier", in.Identifier)
		return nil, errOTPNotVerified
	}

	if in.DeliveryToken != "" && in.DeliveryToken != identity.DeliveryToken {
		if _, err := s.repoStore.Upsert(storeCtx, identity.Identifier, credential.Fields{DeliveryToken: &in.DeliveryToken}); err != nil {
			slog.ErrorContext(ctx, "failed to repo refresh delivery token", "identifier", in.Identifier, "error", err)
		}
	}

	token, err := s.jwt.Generate(identity.ID, identity.Identifier)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.afterCommit(ctx, "identity.login_succeeded", func(ctx context.Context) error {
		return s.repoMessaging.PublishLoginSucceeded(ctx, LoginSucceededEvent{Identifier: identity.Identifier})
	})

	return &LoginOutput{AccessToken: token}, nil
}
