package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/fcm/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrFCMProjectIDRequired is returned when the Firebase project is missing.
var ErrFCMProjectIDRequired = errors.New("push: fcm project id is required")

// ScopeMessaging is the OAuth scope needed by the FCM HTTP v1 API.
const ScopeMessaging = "https://www.googleapis.com/auth/firebase.messaging"

// FCMConfig configures the FCM driver.
type FCMConfig struct {
	// ProjectID is the Firebase project ID.
	ProjectID string
	// ClientOptions carry credentials, endpoint overrides and HTTP clients.
	ClientOptions []option.ClientOption
}

// FCM sends notifications through Firebase Cloud Messaging.
type FCM struct {
	parent string
	svc    *fcm.Service
}

// NewFCM builds an FCM client.
func NewFCM(ctx context.Context, cfg FCMConfig) (*FCM, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, ErrFCMProjectIDRequired
	}

	svc, err := fcm.NewService(ctx, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("push: fcm new service: %w", err)
	}

	return &FCM{parent: "projects/" + cfg.ProjectID, svc: svc}, nil
}

// Send delivers msg and returns the FCM message name as MessageID.
func (f *FCM) Send(ctx context.Context, msg Message) (Result, error) {
	if msg.Token == "" {
		return Result{}, ErrTokenRequired
	}

	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Token: msg.Token,
			Notification: &fcm.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		},
	}

	resp, err := f.svc.Projects.Messages.Send(f.parent, req).Context(ctx).Do()
	if err != nil {
		if isInvalidToken(err) {
			return Result{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		return Result{}, fmt.Errorf("push: fcm send: %w", err)
	}

	return Result{MessageID: resp.Name}, nil
}

// Enabled implements Push.
func (f *FCM) Enabled() bool { return true }

// Close implements io.Closer.
func (f *FCM) Close() error { return nil }

// isInvalidToken recognizes FCM responses that mean the token will never
// work again: errorCode UNREGISTERED, HTTP 404, or INVALID_ARGUMENT about the
// registration token.
func isInvalidToken(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}

	if gerr.Code == http.StatusNotFound {
		return true
	}

	for _, d := range gerr.Details {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if code, _ := m["errorCode"].(string); code == "UNREGISTERED" {
			return true
		}
	}

	return gerr.Code == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(gerr.Message), "registration token")
}
