package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/safemeet/internal/identity/usecase"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/messaging"
	"github.com/shandysiswandi/safemeet/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishOTPIssued(ctx context.Context, msg usecase.OTPIssuedEvent) error {
	return m.publish(ctx, "PublishOTPIssued", event.OTPIssuedDestination, event.OTPIssuedMessage{
		Identifier: msg.Identifier,
		Channel:    msg.Channel,
	})
}

func (m *Messaging) PublishSignupCompleted(ctx context.Context, msg usecase.SignupCompletedEvent) error {
	return m.publish(ctx, "PublishSignupCompleted", event.SignupCompletedDestination, event.SignupCompletedMessage{
		Identifier: msg.Identifier,
		FullName:   msg.FullName,
	})
}

func (m *Messaging) PublishLoginSucceeded(ctx context.Context, msg usecase.LoginSucceededEvent) error {
	return m.publish(ctx, "PublishLoginSucceeded", event.LoginSucceededDestination, event.LoginSucceededMessage{
		Identifier: msg.Identifier,
	})
}

func (m *Messaging) publish(ctx context.Context, spanName, topic string, payload any) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, spanName)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, topic, messaging.Message{
		Body:    body,
		Headers: map[string]string{event.HeaderCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
