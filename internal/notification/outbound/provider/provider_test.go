package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
)

type fakePush struct {
	sent []push.Message
	err  error
}

func (f *fakePush) Send(_ context.Context, msg push.Message) (push.Result, error) {
	if f.err != nil {
		return push.Result{}, f.err
	}
	f.sent = append(f.sent, msg)
	return push.Result{MessageID: "m-1"}, nil
}

func (f *fakePush) Enabled() bool { return f.err == nil }

func (f *fakePush) Close() error { return nil }

func TestProviderSend(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantID  string
		wantErr error
	}{
		{name: "delivered", wantID: "m-1"},
		{name: "disabled", err: push.ErrDisabled, wantErr: push.ErrDisabled},
		{name: "invalid token", err: push.ErrInvalidToken, wantErr: push.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakePush{err: tt.err}
			p := New(fp, instrument.NewNoop())

			res, err := p.Send(context.Background(), push.Message{Token: "t", Title: "Hi", Body: "there"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Send() error = %v, want %v", err, tt.wantErr)
			}
			if res.MessageID != tt.wantID {
				t.Fatalf("MessageID = %q, want %q", res.MessageID, tt.wantID)
			}
		})
	}
}
