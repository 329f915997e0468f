package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

type AccountDeleteInput struct {
	AccountID int64 `validate:"gt=0"`
	Client    ClientInfo
}

// AccountDelete soft deletes an account. Deleting an already deleted account
// succeeds without a second audit record.
func (s *Usecase) AccountDelete(ctx context.Context, in AccountDeleteInput) error {
	ctx, span := s.startSpan(ctx, "AccountDelete")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ownerID, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	acc, err := s.repoDB.GetAccount(ctx, in.AccountID, ownerID, true)
	if errors.Is(err, goerror.ErrNotFound) {
		return s.accountNotFound(ctx, ownerID, in.AccountID, event.AuditActionOtpAccountDeleted, in.Client)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get otp account", "account_id", in.AccountID, "error", err)
		return goerror.NewServer(err)
	}

	if acc.DeletedAt != nil {
		return nil
	}

	if err := s.repoDB.MarkAccountDeleted(ctx, acc.ID, ownerID); err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo delete otp account", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	s.audit(ctx, AuditEvent{
		OwnerID: ownerID,
		Action:  event.AuditActionOtpAccountDeleted,
		Success: true,
		Details: acc.Label(),
		Client:  in.Client,
	})

	return nil
}
