package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/safemeet/internal/identity/entity"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/jwt"
)

func (s *Usecase) Profile(ctx context.Context) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	storeCtx, cancel := s.outbound(ctx)
	defer cancel()

	identity, err := s.repoStore.FindByIdentifier(storeCtx, clm.Identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "identity of token not found", "identifier", clm.Identifier)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find identity", "identifier", clm.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &entity.Profile{
		ID:          identity.ID,
		Identifier:  identity.Identifier,
		FullName:    identity.FullName,
		Phone:       identity.Phone,
		State:       entity.VerificationStateOf(identity.OTPVerified),
		HasPassword: identity.PasswordHash != "",
		HasDevice:   identity.DeliveryToken != "",
		CreatedAt:   identity.CreatedAt,
		UpdatedAt:   identity.UpdatedAt,
	}, nil
}
