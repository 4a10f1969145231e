// Package delivery sends issued OTP codes to their owner over email or push.
package delivery

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/mail"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const otpSubject = "Your Safemeet OTP Code"

type Delivery struct {
	mail mail.Mail
	push push.Push
	ins  instrument.Instrumentation
}

func New(m mail.Mail, p push.Push, ins instrument.Instrumentation) *Delivery {
	return &Delivery{mail: m, push: p, ins: ins}
}

func (d *Delivery) SendEmailOTP(ctx context.Context, to, code string, ttl time.Duration) error {
	ctx, span := d.ins.Tracer("identity.outbound.delivery").Start(ctx, "SendEmailOTP")
	defer span.End()

	minutes := ttlMinutes(ttl)
	err := d.mail.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  otpSubject,
		TextBody: fmt.Sprintf("Your OTP is: %s\nThis OTP will expire in %d minutes.", code, minutes),
		HTMLBody: fmt.Sprintf("<p>Your OTP is: <b>%s</b></p><p>This OTP will expire in %d minutes.</p>", html.EscapeString(code), minutes),
	})

	return recordErr(span, err)
}

func (d *Delivery) SendPushOTP(ctx context.Context, token, code string, ttl time.Duration) error {
	ctx, span := d.ins.Tracer("identity.outbound.delivery").Start(ctx, "SendPushOTP")
	defer span.End()

	_, err := d.push.Send(ctx, push.Message{
		Token: token,
		Title: otpSubject,
		Body:  fmt.Sprintf("Your OTP is: %s. It will expire in %d minutes.", code, ttlMinutes(ttl)),
		Data:  map[string]string{"type": "otp"},
	})

	return recordErr(span, err)
}

// ttlMinutes rounds up to whole minutes, never below one.
func ttlMinutes(ttl time.Duration) int {
	m := int((ttl + time.Minute - 1) / time.Minute)
	return max(m, 1)
}

func recordErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
