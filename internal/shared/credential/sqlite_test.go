package credential

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/safemeet/internal/pkg/clock"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
)

type seqID struct{ n atomic.Int64 }

func (s *seqID) Generate() int64 { return s.n.Add(1) }

func newTestSQLite(t *testing.T) (*SQLite, *clock.Fixed) {
	t.Helper()

	clk := &clock.Fixed{T: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "identities.db"), Deps{
		Clock:      clk,
		ID:         &seqID{},
		Instrument: instrument.NewNoop(),
	})
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s, clk
}

func ptr[T any](v T) *T { return &v }

func TestSQLiteFindMissing(t *testing.T) {
	s, _ := newTestSQLite(t)

	_, err := s.FindByIdentifier(context.Background(), "nobody@example.com")
	if !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteUpsertMergesFields(t *testing.T) {
	s, clk := newTestSQLite(t)
	ctx := context.Background()

	issued := clk.Now()
	first, err := s.Upsert(ctx, "jane@example.com", Fields{
		OTPDigest:   ptr("digest-1"),
		OTPIssuedAt: &issued,
		OTPVerified: ptr(false),
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if first.ID == 0 || first.OTPDigest != "digest-1" || first.OTPVerified {
		t.Fatalf("first = %+v", first)
	}
	if first.OTPIssuedAt == nil || !first.OTPIssuedAt.Equal(issued) {
		t.Fatalf("OTPIssuedAt = %v, want %v", first.OTPIssuedAt, issued)
	}

	clk.Advance(time.Minute)
	second, err := s.Upsert(ctx, "jane@example.com", Fields{DeliveryToken: ptr("tok-1")})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("ID changed %d -> %d", first.ID, second.ID)
	}
	if second.OTPDigest != "digest-1" || second.DeliveryToken != "tok-1" {
		t.Fatalf("nil fields must be untouched, got %+v", second)
	}
	if !second.UpdatedAt.After(second.CreatedAt) {
		t.Fatalf("UpdatedAt %v not after CreatedAt %v", second.UpdatedAt, second.CreatedAt)
	}
}

func TestSQLiteUpsertDefaultsUnverified(t *testing.T) {
	s, _ := newTestSQLite(t)

	it, err := s.Upsert(context.Background(), "+15551234567", Fields{DeliveryToken: ptr("tok")})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if it.OTPVerified || it.PasswordHash != "" {
		t.Fatalf("new record = %+v", it)
	}
}

func TestSQLiteConsumeOTP(t *testing.T) {
	s, clk := newTestSQLite(t)
	ctx := context.Background()

	issued := clk.Now()
	if _, err := s.Upsert(ctx, "jane@example.com", Fields{
		OTPDigest:     ptr("digest-1"),
		OTPIssuedAt:   &issued,
		OTPVerified:   ptr(false),
		DeliveryToken: ptr("device-1"),
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// a newer issue replaces the digest the caller read
	if _, err := s.Upsert(ctx, "jane@example.com", Fields{OTPDigest: ptr("digest-2"), OTPIssuedAt: &issued}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	tests := []struct {
		name       string
		identifier string
		digest     string
		wantErr    error
	}{
		{name: "superseded digest", identifier: "jane@example.com", digest: "digest-1", wantErr: goerror.ErrNotFound},
		{name: "missing record", identifier: "ghost@example.com", digest: "digest-2", wantErr: goerror.ErrNotFound},
		{name: "current digest", identifier: "jane@example.com", digest: "digest-2"},
		{name: "already consumed", identifier: "jane@example.com", digest: "digest-2", wantErr: goerror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ConsumeOTP(ctx, tt.identifier, tt.digest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ConsumeOTP() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConsumeOTP() error = %v", err)
			}
			if !got.OTPVerified || got.OTPDigest != "" || got.OTPIssuedAt != nil {
				t.Fatalf("after ConsumeOTP = %+v", got)
			}
			if got.DeliveryToken != "device-1" {
				t.Fatalf("unrelated fields must survive, got %+v", got)
			}
		})
	}

	rec, err := s.FindByIdentifier(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("FindByIdentifier() error = %v", err)
	}
	if !rec.OTPVerified {
		t.Fatal("a failed consume must not demote the record")
	}
}

func TestSQLiteClearDeliveryToken(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	_, _ = s.Upsert(ctx, "a@example.com", Fields{DeliveryToken: ptr("shared")})
	_, _ = s.Upsert(ctx, "b@example.com", Fields{DeliveryToken: ptr("other")})

	n, err := s.ClearDeliveryToken(ctx, "shared")
	if err != nil || n != 1 {
		t.Fatalf("ClearDeliveryToken() = %d, %v", n, err)
	}

	a, _ := s.FindByIdentifier(ctx, "a@example.com")
	b, _ := s.FindByIdentifier(ctx, "b@example.com")
	if a.DeliveryToken != "" || b.DeliveryToken != "other" {
		t.Fatalf("tokens after clear: a=%q b=%q", a.DeliveryToken, b.DeliveryToken)
	}
}

func TestSQLiteConcurrentUpsertSingleRecord(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan int64, 8)
	for i := range 8 {
		wg.Go(func() {
			it, err := s.Upsert(ctx, "race@example.com", Fields{OTPDigest: ptr(string(rune('a' + i)))})
			if err != nil {
				t.Errorf("Upsert() error = %v", err)
				return
			}
			ids <- it.ID
		})
	}
	wg.Wait()
	close(ids)

	var first int64
	for id := range ids {
		if first == 0 {
			first = id
		}
		if id != first {
			t.Fatalf("concurrent upserts produced two records: %d and %d", first, id)
		}
	}
}

func TestSQLitePing(t *testing.T) {
	s, _ := newTestSQLite(t)

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"}, Deps{})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
