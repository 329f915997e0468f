package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/smartotp/internal/authenticator/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/otp"
	"github.com/shandysiswandi/smartotp/internal/pkg/vault"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

type (
	AccountCreateInput struct {
		Issuer      string `validate:"required,max=100"`
		AccountName string `validate:"required,max=100"`
		Type        string `validate:"required,oneof=TOTP HOTP"`
		Algorithm   string `validate:"required,oneof=SHA1 SHA256 SHA512"`
		Digits      int    `validate:"oneof=6 8"`
		Period      uint   `validate:"max=3600"`
		Counter     uint64 `validate:"max=9223372036854775807"`
		// Secret is optional; a random one is generated when empty.
		Secret    string `validate:"omitempty,min=16,max=128,otpsecret"`
		IconURL   string `validate:"omitempty,url,max=500"`
		SortOrder int    `validate:"gte=0"`
		Client    ClientInfo
	}

	AccountCreateOutput struct {
		Account entity.Account
		// KeyURI is the otpauth:// URI for enrolling an authenticator app. It is
		// only ever returned here.
		KeyURI string
	}
)

func (s *Usecase) AccountCreate(ctx context.Context, in AccountCreateInput) (*AccountCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "AccountCreate")
	defer span.End()

	in.Issuer = strings.TrimSpace(in.Issuer)
	in.AccountName = strings.TrimSpace(in.AccountName)
	in.IconURL = strings.TrimSpace(in.IconURL)
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	in.Algorithm = strings.ToUpper(strings.TrimSpace(in.Algorithm))
	in.Secret = strings.ToUpper(strings.ReplaceAll(in.Secret, " ", ""))
	if in.Algorithm == "" {
		in.Algorithm = otp.AlgorithmSHA1.String()
	}
	if in.Digits == 0 {
		in.Digits = entity.DefaultDigits
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ownerID, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	acc := entity.Account{
		ID:          s.uid.Generate(),
		OwnerID:     ownerID,
		Issuer:      in.Issuer,
		AccountName: in.AccountName,
		Type:        otp.ParseType(in.Type),
		Algorithm:   otp.ParseAlgorithm(in.Algorithm),
		Digits:      in.Digits,
		Period:      entity.DefaultPeriod,
		IconURL:     in.IconURL,
		SortOrder:   in.SortOrder,
	}
	if acc.Type == otp.TypeTOTP && in.Period > 0 {
		acc.Period = in.Period
	}
	if acc.Type == otp.TypeHOTP {
		acc.Counter = in.Counter
	}

	plain := in.Secret
	if plain == "" {
		plain, err = vault.RandomSecret(vault.DefaultSecretLength)
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate otp secret", "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	secret, err := otp.DecodeBase32(plain)
	if err != nil {
		return nil, goerror.NewInvalidFormatError(err, "Secret is not valid Base32")
	}
	defer clear(secret)

	uri, err := otp.KeyURI(otp.KeyURIOptions{
		Type:        acc.Type,
		Issuer:      acc.Issuer,
		AccountName: acc.AccountName,
		Secret:      secret,
		Algorithm:   acc.Algorithm,
		Digits:      acc.Digits,
		Period:      acc.Period,
		Counter:     acc.Counter,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to build otp key uri", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	acc.SecretCiphertext, err = s.encryptor.Encrypt(plain, acc.SecretScope())
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt otp secret", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	acc.SecretCreatedAt = now
	acc.CreatedAt = now
	acc.UpdatedAt = now

	if err := s.repoDB.CreateAccount(ctx, acc); err != nil {
		slog.ErrorContext(ctx, "failed to repo create otp account", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.audit(ctx, AuditEvent{
		OwnerID: ownerID,
		Action:  event.AuditActionOtpAccountCreated,
		Success: true,
		Details: acc.Label(),
		Client:  in.Client,
	})

	acc.SecretCiphertext = ""
	return &AccountCreateOutput{Account: acc, KeyURI: uri}, nil
}
