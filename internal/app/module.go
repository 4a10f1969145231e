package app

import (
	"log/slog"
	"os"
	"slices"

	"github.com/shandysiswandi/safemeet/internal/health"
	"github.com/shandysiswandi/safemeet/internal/identity"
	"github.com/shandysiswandi/safemeet/internal/notification"
)

func publicRoutes() []string {
	return slices.Concat(identity.PublicRoutes, notification.PublicRoutes, health.PublicRoutes)
}

func (a *App) initModules() {
	if err := health.New(health.Dependency{
		Store:      a.store,
		CacheConn:  a.cacheConn,
		Push:       a.push,
		Clock:      a.clock,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Router:     a.router,
	}); err != nil {
		slog.Error("failed to init module health", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			Store:      a.store,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Mail:       a.mail,
			Push:       a.push,
			Config:     a.config,
			Instrument: a.ins,
			Password:   a.password,
			HMAC:       a.hmac,
			OTP:        a.otp,
			Clock:      a.clock,
			Validator:  a.validator,
			JWT:        a.jwt,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			Store:       a.store,
			Push:        a.push,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Router:      a.router,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
