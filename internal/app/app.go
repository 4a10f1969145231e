package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/safemeet/internal/pkg/clock"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/goroutine"
	"github.com/shandysiswandi/safemeet/internal/pkg/hash"
	"github.com/shandysiswandi/safemeet/internal/pkg/idempotency"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/jwt"
	"github.com/shandysiswandi/safemeet/internal/pkg/mail"
	"github.com/shandysiswandi/safemeet/internal/pkg/messaging"
	"github.com/shandysiswandi/safemeet/internal/pkg/otp"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
	"github.com/shandysiswandi/safemeet/internal/pkg/uid"
	"github.com/shandysiswandi/safemeet/internal/pkg/validator"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	password  hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	otp       otp.Generator
	jwt       jwt.JWT

	// resources
	store     credential.Store
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	push      push.Push
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initPush()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
