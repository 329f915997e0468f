package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/otp"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

type VerifyCodeInput struct {
	AccountID int64  `validate:"gt=0"`
	Code      string `validate:"required,otpcode"`
	Client    ClientInfo
}

type VerifyCodeOutput struct {
	IsValid bool
}

// VerifyCode checks a submitted code. A wrong code is a normal outcome
// (IsValid false), not an error. The HOTP counter is never moved here.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ownerID, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	allowed, err := s.countVerifyAttempt(ctx, ownerID, in.AccountID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count otp verify attempt", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !allowed {
		slog.WarnContext(ctx, "otp verify rate limit exceeded", "owner_id", ownerID, "account_id", in.AccountID)
		s.audit(ctx, AuditEvent{
			OwnerID:      ownerID,
			Action:       event.AuditActionOtpVerificationFailed,
			Details:      accountRef(in.AccountID),
			ErrorMessage: "Rate limit exceeded",
			Client:       in.Client,
		})
		return nil, goerror.NewBusiness("Too many verification attempts. Please try again later.", goerror.CodeTooManyRequest)
	}

	acc, err := s.repoDB.GetAccount(ctx, in.AccountID, ownerID, false)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, s.accountNotFound(ctx, ownerID, in.AccountID, event.AuditActionOtpVerificationFailed, in.Client)
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

	var valid bool
	switch acc.Type {
	case otp.TypeTOTP:
		valid, err = otp.VerifyTOTP(secret, in.Code, s.clock.Now(), acc.Digits, acc.Period, acc.Algorithm, otp.DefaultWindow)
	case otp.TypeHOTP:
		valid, err = otp.VerifyHOTP(secret, in.Code, acc.Counter, acc.Digits, acc.Algorithm)
	case otp.TypeUnknown:
		err = otp.ErrUnsupportedType
	default:
		err = otp.ErrUnsupportedType
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify otp code", "account_id", acc.ID, "type", acc.Type.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	if !valid {
		s.audit(ctx, AuditEvent{
			OwnerID:      ownerID,
			Action:       event.AuditActionOtpVerificationFailed,
			Details:      acc.Label(),
			ErrorMessage: "Invalid OTP code",
			Client:       in.Client,
		})
		return &VerifyCodeOutput{IsValid: false}, nil
	}

	if err := s.throttle.Reset(ctx, verifyAttemptsKey(ownerID, acc.ID)); err != nil {
		slog.WarnContext(ctx, "failed to reset otp verify attempts", "account_id", acc.ID, "error", err)
	}

	s.audit(ctx, AuditEvent{
		OwnerID: ownerID,
		Action:  event.AuditActionOtpVerified,
		Success: true,
		Details: acc.Label(),
		Client:  in.Client,
	})

	return &VerifyCodeOutput{IsValid: true}, nil
}
