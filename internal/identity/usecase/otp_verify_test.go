package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

func issue(t *testing.T, h *harness, identifier string) {
	t.Helper()
	if _, err := h.uc.OTPSend(context.Background(), OTPSendInput{Identifier: identifier}); err != nil {
		t.Fatalf("OTPSend() error = %v", err)
	}
}

func TestOTPVerifySucceedsOnce(t *testing.T) {
	h := newHarness(t, baseConfig, "123456")
	issue(t, h, "a@x.com")

	ctx := context.Background()
	if err := h.uc.OTPVerify(ctx, OTPVerifyInput{Identifier: "a@x.com", Code: "123456"}); err != nil {
		t.Fatalf("OTPVerify() error = %v", err)
	}

	rec := h.store.get("a@x.com")
	if !rec.OTPVerified || rec.OTPDigest != "" || rec.OTPIssuedAt != nil {
		t.Fatalf("record after verify = %+v", rec)
	}

	err := h.uc.OTPVerify(ctx, OTPVerifyInput{Identifier: "a@x.com", Code: "123456"})
	if !goerror.IsRejection(err) {
		t.Fatalf("replayed code error = %v, want rejection", err)
	}
	if !h.store.get("a@x.com").OTPVerified {
		t.Fatal("a rejected replay must not demote the identity")
	}
}

func TestOTPVerifyOnlyLatestCode(t *testing.T) {
	h := newHarness(t, baseConfig, "111111", "222222")
	issue(t, h, "a@x.com")
	issue(t, h, "a@x.com")

	ctx := context.Background()
	if err := h.uc.OTPVerify(ctx, OTPVerifyInput{Identifier: "a@x.com", Code: "111111"}); !goerror.IsRejection(err) {
		t.Fatalf("superseded code error = %v, want rejection", err)
	}
	if err := h.uc.OTPVerify(ctx, OTPVerifyInput{Identifier: "a@x.com", Code: "222222"}); err != nil {
		t.Fatalf("latest code error = %v", err)
	}
}

func TestOTPVerifyRejectsCodeReplacedMidway(t *testing.T) {
	h := newHarness(t, baseConfig, "111111", "222222")
	issue(t, h, "a@x.com")

	uc := h.racing(func() { issue(t, h, "a@x.com") })

	ctx := context.Background()
	err := uc.OTPVerify(ctx, OTPVerifyInput{Identifier: "a@x.com", Code: "111111"})
	if !goerror.IsRejection(err) {
		t.Fatalf("replaced code error = %v, want rejection", err)
	}

	rec := h.store.get("a@x.com")
	if rec.OTPVerified || rec.OTPDigest == "" {
		t.Fatalf("the newer issue must survive, got %+v", rec)
	}

	if err := h.uc.OTPVerify(ctx, OTPVerifyInput{Identifier: "a@x.com", Code: "222222"}); err != nil {
		t.Fatalf("latest code error = %v", err)
	}
}

func TestOTPVerifyExpiry(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		ok      bool
	}{
		{name: "within ttl", elapsed: 4 * time.Minute, ok: true},
		{name: "at ttl", elapsed: 5 * time.Minute, ok: true},
		{name: "past ttl", elapsed: 5*time.Minute + time.Second, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, baseConfig, "123456")
			issue(t, h, "a@x.com")
			h.clock.Advance(tt.elapsed)

			err := h.uc.OTPVerify(context.Background(), OTPVerifyInput{Identifier: "a@x.com", Code: "123456"})
			if tt.ok && err != nil {
				t.Fatalf("OTPVerify() error = %v", err)
			}
			if !tt.ok && !goerror.IsRejection(err) {
				t.Fatalf("OTPVerify() error = %v, want rejection", err)
			}
		})
	}
}

func TestOTPVerifyFailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		in      OTPVerifyInput
		prepare func(t *testing.T, h *harness)
		want    goerror.Code
	}{
		{
			name: "unknown identifier",
			in:   OTPVerifyInput{Identifier: "nobody@x.com", Code: "123456"},
			want: goerror.CodeRejected,
		},
		{
			name:    "wrong code",
			in:      OTPVerifyInput{Identifier: "a@x.com", Code: "000000"},
			prepare: func(t *testing.T, h *harness) { issue(t, h, "a@x.com") },
			want:    goerror.CodeRejected,
		},
		{
			name: "no outstanding code",
			in:   OTPVerifyInput{Identifier: "a@x.com", Code: "123456"},
			prepare: func(t *testing.T, h *harness) {
				if _, err := h.store.Upsert(context.Background(), "a@x.com", credential.Fields{}); err != nil {
					t.Fatal(err)
				}
			},
			want: goerror.CodeRejected,
		},
		{
			name: "missing code",
			in:   OTPVerifyInput{Identifier: "a@x.com"},
			want: goerror.CodeInvalidInput,
		},
		{
			name: "non numeric code",
			in:   OTPVerifyInput{Identifier: "a@x.com", Code: "12ab56"},
			want: goerror.CodeInvalidInput,
		},
		{
			name:    "store failure",
			in:      OTPVerifyInput{Identifier: "a@x.com", Code: "123456"},
			prepare: func(_ *testing.T, h *harness) { h.store.findErr = errBoom },
			want:    goerror.CodeInternal,
		},
		{
			name: "consume failure",
			in:   OTPVerifyInput{Identifier: "a@x.com", Code: "123456"},
			prepare: func(t *testing.T, h *harness) {
				issue(t, h, "a@x.com")
				h.store.consumeErr = errBoom
			},
			want: goerror.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, baseConfig, "123456")
			if tt.prepare != nil {
				tt.prepare(t, h)
			}

			err := h.uc.OTPVerify(context.Background(), tt.in)
			assertCode(t, err, tt.want)
		})
	}
}
