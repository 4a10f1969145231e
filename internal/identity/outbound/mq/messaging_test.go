package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shandysiswandi/safemeet/internal/identity/usecase"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/messaging"
	"github.com/shandysiswandi/safemeet/internal/shared/event"
)

type recordPublisher struct {
	topic string
	msg   messaging.Message
	err   error
}

func (r *recordPublisher) Publish(_ context.Context, topic string, msg messaging.Message) error {
	r.topic = topic
	r.msg = msg
	return r.err
}

func TestPublishSignupCompleted(t *testing.T) {
	pub := &recordPublisher{}
	m := NewMessaging(pub, instrument.NewNoop())

	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")
	err := m.PublishSignupCompleted(ctx, usecase.SignupCompletedEvent{Identifier: "a@x.com", FullName: "Ada"})
	if err != nil {
		t.Fatalf("PublishSignupCompleted() error = %v", err)
	}

	if pub.topic != event.SignupCompletedDestination {
		t.Fatalf("topic = %q", pub.topic)
	}
	if got := pub.msg.Header(event.HeaderCorrelationID); got != "cid-1" {
		t.Fatalf("correlation header = %q", got)
	}

	var payload event.SignupCompletedMessage
	if err := json.Unmarshal(pub.msg.Body, &payload); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if payload.Identifier != "a@x.com" || payload.FullName != "Ada" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestPublishTopics(t *testing.T) {
	pub := &recordPublisher{}
	m := NewMessaging(pub, instrument.NewNoop())
	ctx := context.Background()

	if err := m.PublishOTPIssued(ctx, usecase.OTPIssuedEvent{Identifier: "a@x.com", Channel: event.ChannelEmail}); err != nil {
		t.Fatal(err)
	}
	if pub.topic != event.OTPIssuedDestination {
		t.Fatalf("topic = %q", pub.topic)
	}

	if err := m.PublishLoginSucceeded(ctx, usecase.LoginSucceededEvent{Identifier: "a@x.com"}); err != nil {
		t.Fatal(err)
	}
	if pub.topic != event.LoginSucceededDestination {
		t.Fatalf("topic = %q", pub.topic)
	}
}

func TestPublishError(t *testing.T) {
	want := errors.New("bus down")
	m := NewMessaging(&recordPublisher{err: want}, instrument.NewNoop())

	err := m.PublishLoginSucceeded(context.Background(), usecase.LoginSucceededEvent{Identifier: "a@x.com"})
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
