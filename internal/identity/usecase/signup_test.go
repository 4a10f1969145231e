package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

func verified(t *testing.T, h *harness, identifier, code string) {
	t.Helper()
	issue(t, h, identifier)
	if err := h.uc.OTPVerify(context.Background(), OTPVerifyInput{Identifier: identifier, Code: code}); err != nil {
		t.Fatalf("OTPVerify() error = %v", err)
	}
}

func TestSignupRequiresVerification(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, h *harness)
	}{
		{name: "unknown identifier"},
		{
			name:    "otp issued but not verified",
			prepare: func(t *testing.T, h *harness) { issue(t, h, "a@x.com") },
		},
		{
			name: "verified then re-issued",
			prepare: func(t *testing.T, h *harness) {
				verified(t, h, "a@x.com", "123456")
				issue(t, h, "a@x.com")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, baseConfig, "123456", "654321")
			if tt.prepare != nil {
				tt.prepare(t, h)
			}

			err := h.uc.Signup(context.Background(), SignupInput{Identifier: "a@x.com", Password: "password-1"})
			if !goerror.IsRejection(err) {
				t.Fatalf("Signup() error = %v, want rejection", err)
			}
			if rec := h.store.get("a@x.com"); rec != nil && rec.PasswordHash != "" {
				t.Fatal("password must not be stored before verification")
			}
		})
	}
}

func TestSignupStoresProfile(t *testing.T) {
	h := newHarness(t, baseConfig, "123456")
	verified(t, h, "a@x.com", "123456")

	err := h.uc.Signup(context.Background(), SignupInput{
		Identifier:    "a@x.com",
		Password:      "password-1",
		FullName:      " Ada Lovelace ",
		Phone:         "+6281234567890",
		DeliveryToken: "device-1",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	rec := h.store.get("a@x.com")
	if rec.PasswordHash == "" || rec.PasswordHash == "password-1" {
		t.Fatalf("password hash = %q", rec.PasswordHash)
	}
	if rec.FullName != "Ada Lovelace" || rec.Phone != "+6281234567890" || rec.DeliveryToken != "device-1" {
		t.Fatalf("profile = %+v", rec)
	}
	if !rec.OTPVerified {
		t.Fatal("signup must keep the identity verified")
	}

	h.drain(t)
	if len(h.msg.signup) != 1 || h.msg.signup[0].FullName != "Ada Lovelace" {
		t.Fatalf("signup events = %+v", h.msg.signup)
	}
}

func TestSignupKeepsConcurrentReissue(t *testing.T) {
	h := newHarness(t, baseConfig, "123456", "654321")
	verified(t, h, "a@x.com", "123456")

	uc := h.racing(func() { issue(t, h, "a@x.com") })

	ctx := context.Background()
	if err := uc.Signup(ctx, SignupInput{Identifier: "a@x.com", Password: "password-1"}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	rec := h.store.get("a@x.com")
	if rec.OTPVerified || rec.OTPDigest == "" || rec.OTPIssuedAt == nil {
		t.Fatalf("signup must not undo the newer issue, got %+v", rec)
	}
	if rec.PasswordHash == "" {
		t.Fatal("password must still be stored")
	}

	if err := h.uc.OTPVerify(ctx, OTPVerifyInput{Identifier: "a@x.com", Code: "654321"}); err != nil {
		t.Fatalf("latest code error = %v", err)
	}
}

func TestSignupPublishFailureIgnored(t *testing.T) {
	h := newHarness(t, baseConfig, "123456")
	verified(t, h, "a@x.com", "123456")
	h.msg.err = errBoom

	if err := h.uc.Signup(context.Background(), SignupInput{Identifier: "a@x.com", Password: "password-1"}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	h.drain(t)
}

func TestSignupPostCommitNotScheduled(t *testing.T) {
	h := newHarness(t, baseConfig, "123456")
	verified(t, h, "a@x.com", "123456")
	h.drain(t) // closes the manager, later tasks are refused

	if err := h.uc.Signup(context.Background(), SignupInput{Identifier: "a@x.com", Password: "password-1"}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if h.store.get("a@x.com").PasswordHash == "" {
		t.Fatal("signup must be stored even when its event cannot be scheduled")
	}

	h.msg.mu.Lock()
	defer h.msg.mu.Unlock()
	if len(h.msg.signup) != 0 {
		t.Fatalf("signup events = %+v, want none", h.msg.signup)
	}
}

func TestSignupErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      SignupInput
		prepare func(h *harness)
		want    goerror.Code
	}{
		{
			name: "short password",
			in:   SignupInput{Identifier: "a@x.com", Password: "p1"},
			want: goerror.CodeInvalidInput,
		},
		{
			name: "bad phone",
			in:   SignupInput{Identifier: "a@x.com", Password: "password-1", Phone: "0812"},
			want: goerror.CodeInvalidInput,
		},
		{
			name: "find failure",
			in:   SignupInput{Identifier: "a@x.com", Password: "password-1"},
			prepare: func(h *harness) {
				h.store.findErr = errBoom
			},
			want: goerror.CodeInternal,
		},
		{
			name: "upsert failure",
			in:   SignupInput{Identifier: "a@x.com", Password: "password-1"},
			prepare: func(h *harness) {
				h.store.records["a@x.com"] = &credential.Identity{Identifier: "a@x.com", OTPVerified: true}
				h.store.upsertErr = errBoom
			},
			want: goerror.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, baseConfig)
			if tt.prepare != nil {
				tt.prepare(h)
			}

			err := h.uc.Signup(context.Background(), tt.in)
			assertCode(t, err, tt.want)
		})
	}
}
