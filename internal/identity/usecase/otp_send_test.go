package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shandysiswandi/safemeet/internal/identity/entity"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

func TestOTPSendStoresDigestAndDemotes(t *testing.T) {
	h := newHarness(t, baseConfig, "654321")
	h.store.records["a@x.com"] = &credential.Identity{ID: 7, Identifier: "a@x.com", OTPVerified: true}

	out, err := h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: "  A@X.com "})
	if err != nil {
		t.Fatalf("OTPSend() error = %v", err)
	}
	if out.Channel != entity.ChannelEmail || out.ExpiresIn != 5*time.Minute {
		t.Fatalf("output = %+v", out)
	}
	if out.Code != "" {
		t.Fatal("code must not be echoed outside development")
	}

	rec := h.store.get("a@x.com")
	if rec.OTPVerified {
		t.Fatal("issuing a new otp must demote the identity")
	}
	if rec.OTPDigest == "" || rec.OTPDigest == "654321" {
		t.Fatalf("stored digest = %q, want hmac digest", rec.OTPDigest)
	}
	if rec.OTPIssuedAt == nil || !rec.OTPIssuedAt.Equal(h.clock.T) {
		t.Fatalf("issued at = %v", rec.OTPIssuedAt)
	}

	h.drain(t)
	if len(h.msg.issued) != 1 || h.msg.issued[0].Channel != "email" {
		t.Fatalf("issued events = %+v", h.msg.issued)
	}
}

func TestOTPSendExposeInDevelopment(t *testing.T) {
	h := newHarness(t, `
app:
  env: development
  expose_otp: true
`, "111222")

	out, err := h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: "dev@x.com"})
	if err != nil {
		t.Fatalf("OTPSend() error = %v", err)
	}
	if out.Code != "111222" {
		t.Fatalf("Code = %q, want echoed code", out.Code)
	}
}

func TestOTPSendPhone(t *testing.T) {
	t.Run("request token", func(t *testing.T) {
		h := newHarness(t, baseConfig, "333444")

		_, err := h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: "+6281234567890", DeliveryToken: "device-1"})
		if err != nil {
			t.Fatalf("OTPSend() error = %v", err)
		}
		if len(h.delivery.pushes) != 1 || h.delivery.pushes[0].to != "device-1" {
			t.Fatalf("pushes = %+v", h.delivery.pushes)
		}
		if got := h.store.get("+6281234567890").DeliveryToken; got != "device-1" {
			t.Fatalf("stored token = %q", got)
		}
	})

	t.Run("stored token", func(t *testing.T) {
		h := newHarness(t, baseConfig, "333444")
		h.store.records["+6281234567890"] = &credential.Identity{Identifier: "+6281234567890", DeliveryToken: "device-2"}

		if _, err := h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: "+6281234567890"}); err != nil {
			t.Fatalf("OTPSend() error = %v", err)
		}
		if len(h.delivery.pushes) != 1 || h.delivery.pushes[0].to != "device-2" {
			t.Fatalf("pushes = %+v", h.delivery.pushes)
		}
	})

	t.Run("no token", func(t *testing.T) {
		h := newHarness(t, baseConfig, "333444")

		_, err := h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: "+6281234567890"})
		assertCode(t, err, goerror.CodeInvalidInput)
		if h.store.get("+6281234567890") != nil {
			t.Fatal("no record must be created when the code cannot be delivered")
		}
	})
}

func TestOTPSendErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      OTPSendInput
		prepare func(h *harness)
		want    goerror.Code
	}{
		{
			name: "missing identifier",
			in:   OTPSendInput{},
			want: goerror.CodeInvalidInput,
		},
		{
			name: "malformed identifier",
			in:   OTPSendInput{Identifier: "not-an-email"},
			want: goerror.CodeInvalidInput,
		},
		{
			name:    "generator failure",
			in:      OTPSendInput{Identifier: "a@x.com"},
			prepare: func(h *harness) { h.otp.err = errBoom },
			want:    goerror.CodeInternal,
		},
		{
			name:    "store failure",
			in:      OTPSendInput{Identifier: "a@x.com"},
			prepare: func(h *harness) { h.store.upsertErr = errBoom },
			want:    goerror.CodeInternal,
		},
		{
			name:    "delivery failure",
			in:      OTPSendInput{Identifier: "a@x.com"},
			prepare: func(h *harness) { h.delivery.err = errBoom },
			want:    goerror.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, baseConfig, "123456")
			if tt.prepare != nil {
				tt.prepare(h)
			}

			_, err := h.uc.OTPSend(context.Background(), tt.in)
			assertCode(t, err, tt.want)
		})
	}
}

func TestOTPSendDeliveryFailureKeepsCode(t *testing.T) {
	h := newHarness(t, baseConfig, "123456")
	h.delivery.err = errBoom

	_, err := h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: "a@x.com"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("error = %v, want wrapped delivery error", err)
	}

	if err := h.uc.OTPVerify(context.Background(), OTPVerifyInput{Identifier: "a@x.com", Code: "123456"}); err != nil {
		t.Fatalf("stored code must stay valid, OTPVerify() error = %v", err)
	}

	h.drain(t)
	if len(h.msg.issued) != 0 {
		t.Fatalf("no event expected after failed delivery, got %+v", h.msg.issued)
	}
}

func TestOTPSendPushTokenRejected(t *testing.T) {
	const phone = "+6281234567890"

	tests := []struct {
		name        string
		deliveryErr error
		wantCleared bool
	}{
		{
			name:        "invalid token is cleared",
			deliveryErr: fmt.Errorf("%w: registration-token-not-registered", push.ErrInvalidToken),
			wantCleared: true,
		},
		{
			name:        "transient failure keeps token",
			deliveryErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, baseConfig, "333444", "555666")
			h.store.records[phone] = &credential.Identity{Identifier: phone, DeliveryToken: "dead-1"}
			h.delivery.err = tt.deliveryErr

			_, err := h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: phone})
			assertCode(t, err, goerror.CodeInternal)

			got := h.store.get(phone).DeliveryToken
			if tt.wantCleared {
				if got != "" || len(h.store.cleared) != 1 || h.store.cleared[0] != "dead-1" {
					t.Fatalf("token = %q, cleared = %v", got, h.store.cleared)
				}

				h.delivery.err = nil
				_, err = h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: phone})
				assertCode(t, err, goerror.CodeInvalidInput)
				return
			}
			if got != "dead-1" || len(h.store.cleared) != 0 {
				t.Fatalf("token = %q, cleared = %v", got, h.store.cleared)
			}
		})
	}
}

func TestOTPSendClearTokenFailureStillReportsDelivery(t *testing.T) {
	const phone = "+6281234567890"

	h := newHarness(t, baseConfig, "333444")
	h.store.records[phone] = &credential.Identity{Identifier: phone, DeliveryToken: "dead-1"}
	h.store.clearErr = errBoom
	h.delivery.err = push.ErrInvalidToken

	_, err := h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: phone})
	if !errors.Is(err, push.ErrInvalidToken) {
		t.Fatalf("error = %v, want wrapped ErrInvalidToken", err)
	}
	assertCode(t, err, goerror.CodeInternal)
}
