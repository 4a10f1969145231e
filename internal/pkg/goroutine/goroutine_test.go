package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestManagerCollectsErrors(t *testing.T) {
	g := NewManager(4)
	boom := errors.New("boom")

	var ran atomic.Int32
	_ = g.Go(context.Background(), "ok", func(context.Context) error {
		ran.Add(1)
		return nil
	})
	_ = g.Go(context.Background(), "fail", func(context.Context) error {
		ran.Add(1)
		return boom
	})
	_ = g.Go(context.Background(), "canceled", func(context.Context) error {
		ran.Add(1)
		return context.Canceled
	})

	err := g.Wait()
	if !errors.Is(err, boom) {
		t.Fatalf("Wait() error = %v, want boom", err)
	}
	if errors.Is(err, context.Canceled) {
		t.Fatal("context.Canceled must not be collected")
	}
	if ran.Load() != 3 {
		t.Fatalf("ran = %d, want 3", ran.Load())
	}
}

func TestManagerLimit(t *testing.T) {
	g := NewManager(1)
	release := make(chan struct{})
	started := make(chan struct{})

	if err := g.Go(context.Background(), "block", func(context.Context) error {
		close(started)
		<-release
		return nil
	}); err != nil {
		t.Fatalf("Go() error = %v", err)
	}
	<-started

	if err := g.Go(context.Background(), "extra", func(context.Context) error { return nil }); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("Go() error = %v, want ErrLimitReached", err)
	}

	close(release)
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestManagerClosed(t *testing.T) {
	g := NewManager(1)
	_ = g.Wait()

	if err := g.Go(context.Background(), "late", func(context.Context) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("Go() error = %v, want ErrClosed", err)
	}
}

func TestManagerRecoversPanic(t *testing.T) {
	g := NewManager(2)
	_ = g.Go(context.Background(), "panics", func(context.Context) error {
		panic("boom")
	})

	if err := g.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestManagerSkipsCanceledContext(t *testing.T) {
	g := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	_ = g.Go(ctx, "skipped", func(context.Context) error {
		ran.Store(true)
		return nil
	})
	_ = g.Wait()

	if ran.Load() {
		t.Fatal("task ran with a canceled context")
	}
}
