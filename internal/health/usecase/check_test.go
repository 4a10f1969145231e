package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/safemeet/internal/health/entity"
	"github.com/shandysiswandi/safemeet/internal/pkg/clock"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type staticProvider bool

func (p staticProvider) Enabled() bool { return bool(p) }

func TestCheck(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		database pinger
		cache    pinger
		provider provider
		want     entity.Report
	}{
		{
			name:     "all healthy",
			database: up,
			cache:    up,
			provider: staticProvider(true),
			want:     entity.Report{Status: entity.StatusOK, Database: entity.Connected, Cache: entity.Connected, NotificationProvider: entity.Available},
		},
		{
			name:     "disabled provider stays OK",
			database: up,
			cache:    up,
			provider: staticProvider(false),
			want:     entity.Report{Status: entity.StatusOK, Database: entity.Connected, Cache: entity.Connected, NotificationProvider: entity.Unavailable},
		},
		{
			name:     "database down",
			database: down,
			cache:    up,
			provider: staticProvider(true),
			want:     entity.Report{Status: entity.StatusDegraded, Database: entity.Disconnected, Cache: entity.Connected, NotificationProvider: entity.Available},
		},
		{
			name:     "cache down",
			database: up,
			cache:    down,
			provider: staticProvider(true),
			want:     entity.Report{Status: entity.StatusDegraded, Database: entity.Connected, Cache: entity.Disconnected, NotificationProvider: entity.Available},
		},
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  env: test\n"))
			if err != nil {
				t.Fatalf("NewViperFromBytes() error = %v", err)
			}

			uc := New(Dependency{
				Database:   tt.database,
				Cache:      tt.cache,
				Provider:   tt.provider,
				Clock:      &clock.Fixed{T: now},
				Config:     cfg,
				Instrument: instrument.NewNoop(),
			})

			got := uc.Check(context.Background())
			tt.want.Timestamp = now
			if *got != tt.want {
				t.Fatalf("Check() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestCheckProbeTimeout(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  health:\n    probe_timeout_seconds: 1\n"))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}

	hang := pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	uc := New(Dependency{
		Database:   hang,
		Cache:      pingFunc(func(context.Context) error { return nil }),
		Provider:   staticProvider(true),
		Clock:      clock.New(),
		Config:     cfg,
		Instrument: instrument.NewNoop(),
	})

	if got := uc.Check(context.Background()); got.Database != entity.Disconnected || got.Status != entity.StatusDegraded {
		t.Fatalf("Check() = %+v", *got)
	}
}
