package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/idempotency"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/pkg/validator"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

var errBoom = errors.New("boom")

type fakeStore struct {
	mu        sync.Mutex
	records   map[string]*credential.Identity
	findErr   error
	upsertErr error
	cleared   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*credential.Identity{}}
}

func (f *fakeStore) FindByIdentifier(_ context.Context, identifier string) (*credential.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}
	rec, ok := f.records[identifier]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) Upsert(_ context.Context, identifier string, in credential.Fields) (*credential.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	rec, ok := f.records[identifier]
	if !ok {
		rec = &credential.Identity{ID: int64(len(f.records) + 1), Identifier: identifier}
		f.records[identifier] = rec
	}
	if in.DeliveryToken != nil {
		rec.DeliveryToken = *in.DeliveryToken
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) ClearDeliveryToken(_ context.Context, token string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cleared = append(f.cleared, token)
	var n int64
	for _, rec := range f.records {
		if rec.DeliveryToken == token {
			rec.DeliveryToken = ""
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) token(identifier string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if rec, ok := f.records[identifier]; ok {
		return rec.DeliveryToken
	}
	return ""
}

type fakePush struct {
	mu   sync.Mutex
	err  error
	sent []push.Message
}

func (f *fakePush) Send(_ context.Context, msg push.Message) (push.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return push.Result{}, f.err
	}
	f.sent = append(f.sent, msg)
	return push.Result{MessageID: fmt.Sprintf("msg-%d", len(f.sent))}, nil
}

type harness struct {
	uc    *Usecase
	store *fakeStore
	push  *fakePush
	redis *miniredis.Miniredis
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  outbound_timeout_seconds: 5\n"))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	t.Cleanup(func() { _ = cfg.Close() })

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := &harness{
		store: newFakeStore(),
		push:  &fakePush{},
		redis: mr,
	}

	h.uc = NewNotification(Dependency{
		RepoStore:   h.store,
		RepoPush:    h.push,
		Idempotency: idempotency.New(rdb),
		Validator:   v,
		Config:      cfg,
		Instrument:  instrument.NewNoop(),
	})

	return h
}

func (h *harness) seed(identifier, token string) {
	h.store.records[identifier] = &credential.Identity{
		ID:            int64(len(h.store.records) + 1),
		Identifier:    identifier,
		DeliveryToken: token,
	}
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v (%T), want *goerror.Error", err, err)
	}
	if gerr.Code() != want {
		t.Fatalf("code = %s, want %s", gerr.Code(), want)
	}
}
