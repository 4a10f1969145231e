package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/safemeet/internal/notification/usecase"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/messaging"
	"github.com/shandysiswandi/safemeet/internal/pkg/uid"
	"github.com/shandysiswandi/safemeet/internal/shared/event"
)

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(event.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OTPIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPIssuedNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: otp issued notification", "msg_body", string(msg.Body))

	var payload event.OTPIssuedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued notification", "msg_body", string(msg.Body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeOTPIssued(ctx, usecase.ConsumeOTPIssuedInput{
		Identifier: payload.Identifier,
		Channel:    payload.Channel,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued", "msg_body", string(msg.Body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) SignupCompletedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "SignupCompletedNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: signup completed notification", "msg_body", string(msg.Body))

	var payload event.SignupCompletedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of signup completed notification", "msg_body", string(msg.Body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeSignupCompleted(ctx, usecase.ConsumeSignupCompletedInput{
		Identifier: payload.Identifier,
		FullName:   payload.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume signup completed", "msg_body", string(msg.Body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) LoginSucceededNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "LoginSucceededNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: login succeeded notification", "msg_body", string(msg.Body))

	var payload event.LoginSucceededMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of login succeeded notification", "msg_body", string(msg.Body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeLoginSucceeded(ctx, usecase.ConsumeLoginSucceededInput{
		Identifier: payload.Identifier,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume login succeeded", "msg_body", string(msg.Body), "error", err)
		return err
	}

	return nil
}
