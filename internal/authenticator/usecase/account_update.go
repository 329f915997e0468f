package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/smartotp/internal/authenticator/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

type (
	AccountUpdateInput struct {
		AccountID   int64  `validate:"gt=0"`
		Issuer      string `validate:"required,max=100"`
		AccountName string `validate:"required,max=100"`
		IconURL     string `validate:"omitempty,url,max=500"`
		Client      ClientInfo
	}

	AccountSortOrderInput struct {
		AccountID int64 `validate:"gt=0"`
		SortOrder int   `validate:"gte=0"`
		Client    ClientInfo
	}
)

func (s *Usecase) AccountUpdate(ctx context.Context, in AccountUpdateInput) error {
	ctx, span := s.startSpan(ctx, "AccountUpdate")
	defer span.End()

	in.Issuer = strings.TrimSpace(in.Issuer)
	in.AccountName = strings.TrimSpace(in.AccountName)
	in.IconURL = strings.TrimSpace(in.IconURL)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ownerID, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	details := entity.AccountDetails{
		ID:          in.AccountID,
		OwnerID:     ownerID,
		Issuer:      in.Issuer,
		AccountName: in.AccountName,
		IconURL:     in.IconURL,
	}
	err = s.repoDB.UpdateAccountDetails(ctx, details)
	if errors.Is(err, goerror.ErrNotFound) {
		return s.accountNotFound(ctx, ownerID, in.AccountID, event.AuditActionOtpAccountUpdated, in.Client)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update otp account", "account_id", in.AccountID, "error", err)
		return goerror.NewServer(err)
	}

	s.audit(ctx, AuditEvent{
		OwnerID: ownerID,
		Action:  event.AuditActionOtpAccountUpdated,
		Success: true,
		Details: in.Issuer + " - " + in.AccountName,
		Client:  in.Client,
	})

	return nil
}

func (s *Usecase) AccountSortOrder(ctx context.Context, in AccountSortOrderInput) error {
	ctx, span := s.startSpan(ctx, "AccountSortOrder")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ownerID, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	err = s.repoDB.UpdateAccountSortOrder(ctx, in.AccountID, ownerID, in.SortOrder)
	if errors.Is(err, goerror.ErrNotFound) {
		return s.accountNotFound(ctx, ownerID, in.AccountID, event.AuditActionOtpAccountUpdated, in.Client)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update otp account sort order", "account_id", in.AccountID, "error", err)
		return goerror.NewServer(err)
	}

	s.audit(ctx, AuditEvent{
		OwnerID: ownerID,
		Action:  event.AuditActionOtpAccountUpdated,
		Success: true,
		Details: accountRef(in.AccountID),
		Client:  in.Client,
	})

	return nil
}
