package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/idempotency"
	"github.com/shandysiswandi/smartotp/internal/pkg/otp"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

type GenerateCodeInput struct {
	AccountID int64 `validate:"gt=0"`
	// IdempotencyKey makes a retried request fail with a conflict instead of
	// consuming another HOTP counter value.
	IdempotencyKey string `validate:"omitempty,max=128"`
	Client         ClientInfo
}

type GenerateCodeOutput struct {
	Code             string
	RemainingSeconds int // 0 for HOTP
	GeneratedAt      time.Time
}

func (s *Usecase) GenerateCode(ctx context.Context, in GenerateCodeInput) (*GenerateCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "GenerateCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ownerID, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if in.IdempotencyKey == "" {
		return s.generateCode(ctx, ownerID, in)
	}

	var out *GenerateCodeOutput
	key := "otp_generate:" + strconv.FormatInt(ownerID, 10) + ":" + strconv.FormatInt(in.AccountID, 10) + ":" + in.IdempotencyKey
	err = s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		var gerr error
		out, gerr = s.generateCode(ctx, ownerID, in)
		return gerr
	})
	switch {
	case errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.WarnContext(ctx, "otp generate replayed", "owner_id", ownerID, "account_id", in.AccountID, "error", err)
		return nil, goerror.NewBusiness("Request with this Idempotency-Key has already been processed", goerror.CodeConflict)
	case err != nil:
		return nil, asGoError(ctx, "failed to run idempotent otp generate", err)
	}

	return out, nil
}

func (s *Usecase) generateCode(ctx context.Context, ownerID int64, in GenerateCodeInput) (*GenerateCodeOutput, error) {
	acc, err := s.repoDB.GetAccount(ctx, in.AccountID, ownerID, false)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, s.accountNotFound(ctx, ownerID, in.AccountID, event.AuditActionOtpGenerated, in.Client)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get otp account", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	secret, err := s.openSecret(ctx, acc)
	if err != nil {
		return nil, err
	}
	defer clear(secret)

	now := s.clock.Now()
	out := &GenerateCodeOutput{GeneratedAt: now}

	switch acc.Type {
	case otp.TypeTOTP:
		out.Code, err = otp.GenerateTOTP(secret, now, acc.Digits, acc.Period, acc.Algorithm)
		out.RemainingSeconds = otp.RemainingSeconds(now, acc.Period)
	case otp.TypeHOTP:
		counter, cerr := s.repoDB.AdvanceHOTPCounter(ctx, acc.ID, ownerID)
		if errors.Is(cerr, goerror.ErrNotFound) {
			return nil, s.accountNotFound(ctx, ownerID, in.AccountID, event.AuditActionOtpGenerated, in.Client)
		}
		if cerr != nil {
			slog.ErrorContext(ctx, "failed to repo advance hotp counter", "account_id", acc.ID, "error", cerr)
			return nil, goerror.NewServer(cerr)
		}
		out.Code, err = otp.GenerateHOTP(secret, counter, acc.Digits, acc.Algorithm)
	case otp.TypeUnknown:
		err = otp.ErrUnsupportedType
	default:
		err = otp.ErrUnsupportedType
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to compute otp code", "account_id", acc.ID, "type", acc.Type.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	s.audit(ctx, AuditEvent{
		OwnerID: ownerID,
		Action:  event.AuditActionOtpGenerated,
		Success: true,
		Details: acc.Label(),
		Client:  in.Client,
	})

	return out, nil
}
