package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
)

type RegisterTokenInput struct {
	Identifier string `validate:"required,identifier"`
	Token      string `validate:"required,max=4096"`
}

// RegisterToken overwrites the delivery token of the identity, creating the
// record when it does not exist yet.
func (s *Usecase) RegisterToken(ctx context.Context, in RegisterTokenInput) error {
	ctx, span := s.startSpan(ctx, "RegisterToken")
	defer span.End()

	in.Identifier = credential.NormalizeIdentifier(in.Identifier)
	in.Token = strings.TrimSpace(in.Token)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	storeCtx, cancel := s.outbound(ctx)
	defer cancel()

	if _, err := s.repoStore.Upsert(storeCtx, in.Identifier, credential.Fields{DeliveryToken: &in.Token}); err != nil {
		slog.ErrorContext(ctx, "failed to repo register delivery token", "identifier", in.Identifier, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
