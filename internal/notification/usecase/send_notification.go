package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/safemeet/internal/notification/entity"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/idempotency"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

type SendNotificationInput struct {
	Identifier     string `validate:"omitempty,identifier"`
	Token          string `validate:"omitempty,max=4096"`
	Title          string `validate:"required,max=200"`
	Body           string `validate:"required,max=4000"`
	Data           map[string]string
	IdempotencyKey string `validate:"omitempty,max=128"`
}

// SendNotification pushes a message to a raw token or to the token stored
// for an identity. A token the provider reports as dead is removed from
// every record holding it.
func (s *Usecase) SendNotification(ctx context.Context, in SendNotificationInput) (*entity.DeliveryResult, error) {
	ctx, span := s.startSpan(ctx, "SendNotification")
	defer span.End()

	in.Identifier = credential.NormalizeIdentifier(in.Identifier)
	in.Token = strings.TrimSpace(in.Token)
	in.Title = strings.TrimSpace(in.Title)
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Identifier == "" && in.Token == "" {
		return nil, goerror.NewInvalidInput(nil, "identifier", "identifier or token is required")
	}

	msg := push.Message{Token: in.Token, Title: in.Title, Body: in.Body, Data: in.Data}

	if in.IdempotencyKey == "" {
		return s.deliver(ctx, in.Identifier, msg)
	}

	raw, replayed, err := s.idemp.Exec(ctx, "notification:send:"+in.IdempotencyKey, func(ctx context.Context) ([]byte, error) {
		res, err := s.deliver(ctx, in.Identifier, msg)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)
	})
	if errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.WarnContext(ctx, "notification with idempotency key in progress", "idempotency_key", in.IdempotencyKey)
		return nil, goerror.NewBusiness("Notification with this idempotency key is in progress", goerror.CodeConflict)
	}
	if err != nil {
		var gerr *goerror.Error
		if errors.As(err, &gerr) {
			return nil, gerr
		}
		slog.ErrorContext(ctx, "failed to exec idempotent notification", "idempotency_key", in.IdempotencyKey, "error", err)
		return nil, goerror.NewServer(err)
	}

	var res entity.DeliveryResult
	if err := json.Unmarshal(raw, &res); err != nil {
		slog.ErrorContext(ctx, "failed to decode idempotent notification result", "idempotency_key", in.IdempotencyKey, "error", err)
		return nil, goerror.NewServer(err)
	}
	res.Replayed = replayed

	return &res, nil
}

// deliver resolves the token when msg has none and calls the provider.
func (s *Usecase) deliver(ctx context.Context, identifier string, msg push.Message) (*entity.DeliveryResult, error) {
	if msg.Token == "" {
		token, err := s.lookupToken(ctx, identifier)
		if err != nil {
			return nil, err
		}
		msg.Token = token
	}

	pushCtx, cancel := s.outbound(ctx)
	defer cancel()

	res, err := s.repoPush.Send(pushCtx, msg)
	if errors.Is(err, push.ErrDisabled) {
		slog.WarnContext(ctx, "push provider is disabled", "identifier", identifier)
		return nil, errProviderDisabled
	}
	if errors.Is(err, push.ErrInvalidToken) {
		s.invalidateToken(ctx, msg.Token)
		slog.ErrorContext(ctx, "failed to push notification to invalid token", "identifier", identifier, "error", err)
		return nil, goerror.NewServer(err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to push notification", "identifier", identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &entity.DeliveryResult{MessageID: res.MessageID}, nil
}

func (s *Usecase) lookupToken(ctx context.Context, identifier string) (string, error) {
	storeCtx, cancel := s.outbound(ctx)
	defer cancel()

	identity, err := s.repoStore.FindByIdentifier(storeCtx, identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "notification recipient not found", "identifier", identifier)
		return "", errRecipientNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find identity", "identifier", identifier, "error", err)
		return "", goerror.NewServer(err)
	}

	if identity.DeliveryToken == "" {
		slog.WarnContext(ctx, "notification recipient has no delivery token", "identifier", identifier)
		return "", errRecipientNotFound
	}

	return identity.DeliveryToken, nil
}

func (s *Usecase) invalidateToken(ctx context.Context, token string) {
	storeCtx, cancel := s.outbound(context.WithoutCancel(ctx))
	defer cancel()

	n, err := s.repoStore.ClearDeliveryToken(storeCtx, token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo clear delivery token", "error", err)
		return
	}
	slog.InfoContext(ctx, "cleared invalid delivery token", "records", n)
}
