package inbound

import (
	"context"

	"github.com/shandysiswandi/safemeet/internal/notification/entity"
	"github.com/shandysiswandi/safemeet/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
	ConsumeSignupCompleted(ctx context.Context, in usecase.ConsumeSignupCompletedInput) error
	ConsumeLoginSucceeded(ctx context.Context, in usecase.ConsumeLoginSucceededInput) error
}

type uc interface {
	ucConsumer

	RegisterToken(ctx context.Context, in usecase.RegisterTokenInput) error
	SendNotification(ctx context.Context, in usecase.SendNotificationInput) (*entity.DeliveryResult, error)
}
