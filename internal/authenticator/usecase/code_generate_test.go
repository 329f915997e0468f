package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/smartotp/internal/authenticator/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/otp"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Run("TOTP", func(t *testing.T) {
		f := newFixture(t)
		acc := f.seed(t, entity.Account{ID: 1, Issuer: "Acme", AccountName: "bob", Type: otp.TypeTOTP}, testSecret)

		out, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{
			AccountID: acc.ID,
			Client:    ClientInfo{IPAddress: "10.0.0.1", UserAgent: "curl"},
		})
		require.NoError(t, err)
		assert.Equal(t, "287082", out.Code)
		assert.Equal(t, 1, out.RemainingSeconds)
		assert.Equal(t, testNow, out.GeneratedAt)

		ev := f.mq.last(t)
		assert.Equal(t, event.AuditActionOtpGenerated, ev.Action)
		assert.True(t, ev.Success)
		assert.Equal(t, "Acme - bob", ev.Details)
		assert.Equal(t, "10.0.0.1", ev.Client.IPAddress)
	})

	t.Run("TOTPEightDigitsSHA1", func(t *testing.T) {
		f := newFixture(t)
		acc := f.seed(t, entity.Account{ID: 1, Type: otp.TypeTOTP, Digits: 8}, testSecret)

		out, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{AccountID: acc.ID})
		require.NoError(t, err)
		assert.Equal(t, "94287082", out.Code)
	})

	t.Run("HOTPAdvancesCounter", func(t *testing.T) {
		f := newFixture(t)
		acc := f.seed(t, entity.Account{ID: 1, Type: otp.TypeHOTP}, testSecret)

		first, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{AccountID: acc.ID})
		require.NoError(t, err)
		second, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{AccountID: acc.ID})
		require.NoError(t, err)

		assert.Equal(t, "755224", first.Code)
		assert.Equal(t, "287082", second.Code)
		assert.Zero(t, first.RemainingSeconds)
		assert.Equal(t, uint64(2), f.db.accounts[acc.ID].Counter)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{AccountID: 404})
		assertCode(t, err, goerror.CodeNotFound)

		ev := f.mq.last(t)
		assert.False(t, ev.Success)
		assert.Equal(t, "OTP account not found", ev.ErrorMessage)
		assert.Equal(t, "Account: 404", ev.Details)
	})

	t.Run("OtherOwner", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, entity.Account{ID: 1, OwnerID: 99, Type: otp.TypeTOTP}, testSecret)

		_, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{AccountID: 1})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("Deleted", func(t *testing.T) {
		f := newFixture(t)
		deleted := testNow
		f.seed(t, entity.Account{ID: 1, Type: otp.TypeTOTP, DeletedAt: &deleted}, testSecret)

		_, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{AccountID: 1})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("IdempotencyKeyReplay", func(t *testing.T) {
		f := newFixture(t)
		acc := f.seed(t, entity.Account{ID: 1, Type: otp.TypeHOTP}, testSecret)
		in := GenerateCodeInput{AccountID: acc.ID, IdempotencyKey: "req-1"}

		_, err := f.uc.GenerateCode(authCtx(), in)
		require.NoError(t, err)

		_, err = f.uc.GenerateCode(authCtx(), in)
		assertCode(t, err, goerror.CodeConflict)
		assert.Equal(t, uint64(1), f.db.accounts[acc.ID].Counter)
	})

	t.Run("IdempotencyKeyKeepsBusinessError", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{AccountID: 404, IdempotencyKey: "req-1"})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{AccountID: 0})
		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.GenerateCode(context.Background(), GenerateCodeInput{AccountID: 1})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("RepoError", func(t *testing.T) {
		f := newFixture(t)
		f.db.err = errors.New("db down")

		_, err := f.uc.GenerateCode(authCtx(), GenerateCodeInput{AccountID: 1})
		assertCode(t, err, goerror.CodeInternal)
		assert.Empty(t, f.mq.events)
	})
}
