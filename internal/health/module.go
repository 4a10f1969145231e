package health

import (
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/safemeet/internal/health/inbound"
	"github.com/shandysiswandi/safemeet/internal/health/outbound/cache"
	"github.com/shandysiswandi/safemeet/internal/health/usecase"
	"github.com/shandysiswandi/safemeet/internal/pkg/clock"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
	"github.com/shandysiswandi/safemeet/internal/pkg/validator"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

// PublicRoutes lists the health endpoints that skip authentication.
var PublicRoutes = inbound.PublicRoutes

type Dependency struct {
	Store      credential.Store           `validate:"required"`
	CacheConn  redis.UniversalClient      `validate:"required"`
	Push       push.Push                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Database:   dep.Store,
		Cache:      cache.New(dep.CacheConn, dep.Instrument),
		Provider:   dep.Push,
		Clock:      dep.Clock,
		Config:     dep.Config,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
