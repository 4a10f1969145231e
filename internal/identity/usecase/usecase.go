package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/safemeet/internal/pkg/clock"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/goroutine"
	"github.com/shandysiswandi/safemeet/internal/pkg/hash"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/jwt"
	"github.com/shandysiswandi/safemeet/internal/pkg/otp"
	"github.com/shandysiswandi/safemeet/internal/pkg/validator"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultOTPTTL          = 5 * time.Minute
	defaultOutboundTimeout = 10 * time.Second
)

type OTPIssuedEvent struct {
	Identifier string
	Channel    string
}

type SignupCompletedEvent struct {
	Identifier string
	FullName   string
}

type LoginSucceededEvent struct {
	Identifier string
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
	PublishSignupCompleted(ctx context.Context, msg SignupCompletedEvent) error
	PublishLoginSucceeded(ctx context.Context, msg LoginSucceededEvent) error
}

type repoStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (*credential.Identity, error)
	Upsert(ctx context.Context, identifier string, f credential.Fields) (*credential.Identity, error)
	ConsumeOTP(ctx context.Context, identifier, digest string) (*credential.Identity, error)
	ClearDeliveryToken(ctx context.Context, token string) (int64, error)
}

type repoDelivery interface {
	SendEmailOTP(ctx context.Context, to, code string, ttl time.Duration) error
	SendPushOTP(ctx context.Context, token, code string, ttl time.Duration) error
}

type Usecase struct {
	repoStore     repoStore
	repoMessaging repoMessaging
	repoDelivery  repoDelivery
	validator     validator.Validator
	cfg           config.Config
	password      hash.Hash
	hmac          hash.Hash
	otp           otp.Generator
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoStore     repoStore
	RepoMessaging repoMessaging
	RepoDelivery  repoDelivery
	Validator     validator.Validator
	Config        config.Config
	Password      hash.Hash
	HMAC          hash.Hash
	OTP           otp.Generator
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore:     dep.RepoStore,
		repoMessaging: dep.RepoMessaging,
		repoDelivery:  dep.RepoDelivery,
		validator:     dep.Validator,
		cfg:           dep.Config,
		password:      dep.Password,
		hmac:          dep.HMAC,
		otp:           dep.OTP,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	if ttl := s.cfg.GetSecond("otp.ttl_seconds"); ttl > 0 {
		return ttl
	}
	return defaultOTPTTL
}

// outbound bounds a single call to the store or a delivery provider.
func (s *Usecase) outbound(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.GetSecond("app.outbound_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultOutboundTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *Usecase) exposeOTP() bool {
	return s.cfg.GetBool("app.expose_otp") && strings.EqualFold(s.cfg.GetString("app.env"), "development")
}

// afterCommit runs fn in the background once the primary write succeeded.
// Its outcome never reaches the caller.
func (s *Usecase) afterCommit(ctx context.Context, name string, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)

	err := s.goroutine.Go(ctx, name, func(ctx context.Context) error {
		ctx, cancel := s.outbound(ctx)
		defer cancel()

		if err := fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to run post-commit task", "task", name, "error", err)
		}
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "post-commit task not scheduled", "task", name, "error", err)
	}
}
