package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type staticID string

func (s staticID) Generate() string { return string(s) }

func newTestJWT(t *testing.T, now time.Time) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "safemeet",
		Audiences: []string{"safemeet-api"},
		TTL:       time.Hour,
		Clock:     &fixedClock{t: now},
		UUID:      staticID("jti-1"),
	})
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	return j
}

func TestNewHS512ShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	if !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("error = %v, want ErrSigningKeyTooShort", err)
	}
}

func TestGenerateVerify(t *testing.T) {
	j := newTestJWT(t, time.Now())

	token, err := j.Generate(42, "jane@example.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 || claims.Identifier != "jane@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Subject != "42" || claims.ID != "jti-1" {
		t.Fatalf("registered claims = %+v", claims.RegisteredClaims)
	}
}

func TestVerifyExpired(t *testing.T) {
	past := newTestJWT(t, time.Now().Add(-2*time.Hour))

	token, err := past.Generate(1, "+15551234567")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = newTestJWT(t, time.Now()).Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("error = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	j := newTestJWT(t, time.Now())
	token, _ := j.Generate(1, "a@b.co")

	other, _ := NewHS512(Config{
		Secret:    []byte(strings.Repeat("z", 64)),
		Issuer:    "safemeet",
		Audiences: []string{"safemeet-api"},
		Clock:     &fixedClock{t: time.Now()},
		UUID:      staticID("x"),
	})
	if _, err := other.Verify(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestAuthContext(t *testing.T) {
	if GetAuth(context.Background()) != nil {
		t.Fatal("expected nil claims on empty context")
	}

	ctx := SetAuth(context.Background(), Claims{UserID: 7, Identifier: "x@y.io"})
	got := GetAuth(ctx)
	if got == nil || got.UserID != 7 {
		t.Fatalf("GetAuth() = %+v", got)
	}
}
