package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/safemeet/internal/pkg/clock"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

const defaultProbeTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type provider interface {
	Enabled() bool
}

type Usecase struct {
	database pinger
	cache    pinger
	provider provider
	clock    clock.Clocker
	cfg      config.Config
	ins      instrument.Instrumentation
}

type Dependency struct {
	Database   pinger
	Cache      pinger
	Provider   provider
	Clock      clock.Clocker
	Config     config.Config
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		database: dep.Database,
		cache:    dep.Cache,
		provider: dep.Provider,
		clock:    dep.Clock,
		cfg:      dep.Config,
		ins:      dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("health.usecase").Start(ctx, name)
}

func (s *Usecase) probe(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.GetSecond("modules.health.probe_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
