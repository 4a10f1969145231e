// Package provider hands notifications to the configured push backend.
package provider

import (
	"context"
	"errors"

	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Provider struct {
	push push.Push
	ins  instrument.Instrumentation
}

func New(p push.Push, ins instrument.Instrumentation) *Provider {
	return &Provider{push: p, ins: ins}
}

func (p *Provider) Send(ctx context.Context, msg push.Message) (push.Result, error) {
	ctx, span := p.ins.Tracer("notification.outbound.provider").Start(ctx, "Send")
	defer span.End()

	res, err := p.push.Send(ctx, msg)
	switch {
	case errors.Is(err, push.ErrDisabled):
		span.SetAttributes(attribute.Bool("push.disabled", true))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		span.SetAttributes(attribute.String("push.message_id", res.MessageID))
	}

	return res, err
}
