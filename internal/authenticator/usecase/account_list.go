package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/smartotp/internal/authenticator/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
)

type AccountListOutput struct {
	Accounts []entity.Account
}

// AccountList returns the caller's live accounts ordered by sort order. Secret
// ciphertext is stripped from every entry.
func (s *Usecase) AccountList(ctx context.Context) (*AccountListOutput, error) {
	ctx, span := s.startSpan(ctx, "AccountList")
	defer span.End()

	ownerID, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repoDB.GetAccountList(ctx, ownerID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list otp accounts", "owner_id", ownerID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AccountListOutput{
		Accounts: lo.Map(accounts, func(a entity.Account, _ int) entity.Account {
			a.SecretCiphertext = ""
			return a
		}),
	}, nil
}
