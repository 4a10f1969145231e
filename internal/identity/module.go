package identity

import (
	"github.com/shandysiswandi/safemeet/internal/identity/inbound"
	"github.com/shandysiswandi/safemeet/internal/identity/outbound/delivery"
	"github.com/shandysiswandi/safemeet/internal/identity/outbound/mq"
	"github.com/shandysiswandi/safemeet/internal/identity/usecase"
	"github.com/shandysiswandi/safemeet/internal/pkg/clock"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/goroutine"
	"github.com/shandysiswandi/safemeet/internal/pkg/hash"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/jwt"
	"github.com/shandysiswandi/safemeet/internal/pkg/mail"
	"github.com/shandysiswandi/safemeet/internal/pkg/messaging"
	"github.com/shandysiswandi/safemeet/internal/pkg/otp"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
	"github.com/shandysiswandi/safemeet/internal/pkg/validator"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

// PublicRoutes lists the identity endpoints that skip authentication.
var PublicRoutes = inbound.PublicRoutes

type Dependency struct {
	Store      credential.Store           `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Push       push.Push                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Password   hash.Hash                  `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	OTP        otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoStore:     dep.Store,
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		RepoDelivery:  delivery.New(dep.Mail, dep.Push, dep.Instrument),
		Validator:     dep.Validator,
		Config:        dep.Config,
		Password:      dep.Password,
		HMAC:          dep.HMAC,
		OTP:           dep.OTP,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
