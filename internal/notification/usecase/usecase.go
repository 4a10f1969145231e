package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/idempotency"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/pkg/validator"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
	"go.opentelemetry.io/otel/trace"
)

const defaultOutboundTimeout = 10 * time.Second

var (
	errRecipientNotFound = goerror.NewBusiness("Recipient not found", goerror.CodeNotFound)
	errProviderDisabled  = goerror.NewBusiness("Notification provider unavailable", goerror.CodeUnavailable)
)

type repoStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (*credential.Identity, error)
	Upsert(ctx context.Context, identifier string, f credential.Fields) (*credential.Identity, error)
	ClearDeliveryToken(ctx context.Context, token string) (int64, error)
}

type repoPush interface {
	Send(ctx context.Context, msg push.Message) (push.Result, error)
}

type Usecase struct {
	repoStore repoStore
	repoPush  repoPush
	idemp     idempotency.Idempotency
	validator validator.Validator
	cfg       config.Config
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoStore   repoStore
	RepoPush    repoPush
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	Instrument  instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		repoStore: dep.RepoStore,
		repoPush:  dep.RepoPush,
		idemp:     dep.Idempotency,
		validator: dep.Validator,
		cfg:       dep.Config,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) outbound(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.GetSecond("app.outbound_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultOutboundTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
