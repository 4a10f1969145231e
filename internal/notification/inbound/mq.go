package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/goroutine"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/messaging"
	"github.com/shandysiswandi/safemeet/internal/pkg/uid"
	"github.com/shandysiswandi/safemeet/internal/shared/event"
)

const consumerConcurrency = 10

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	consumer messaging.Consumer,
	uuid uid.StringID,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name    string // consumer group
		topic   string // destination where publisher sent message
		handler messaging.Handler
	}{
		{
			name:    event.OTPIssuedConsumerNotification,
			topic:   event.OTPIssuedDestination,
			handler: mqHandler.OTPIssuedNotification,
		},
		{
			name:    event.SignupCompletedConsumerNotification,
			topic:   event.SignupCompletedDestination,
			handler: mqHandler.SignupCompletedNotification,
		},
		{
			name:    event.LoginSucceededConsumerNotification,
			topic:   event.LoginSucceededDestination,
			handler: mqHandler.LoginSucceededNotification,
		},
	}

	for _, c := range consumers {
		if !slices.Contains(enableConsumerNames, c.name) {
			continue
		}

		err := routine.Go(ctx, c.name, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", c.name)
			return consumer.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.WithGroup(c.name),
				messaging.WithConcurrency(consumerConcurrency),
			)
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to start consumer", "consumer", c.name, "error", err)
		}
	}
}
