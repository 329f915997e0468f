package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/smartotp/internal/authenticator/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/otp"
	"github.com/shandysiswandi/smartotp/internal/pkg/pgtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(id, ownerID int64, typ otp.Type) entity.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return entity.Account{
		ID:               id,
		OwnerID:          ownerID,
		Issuer:           "Acme",
		AccountName:      "bob",
		Type:             typ,
		Algorithm:        otp.AlgorithmSHA1,
		Digits:           6,
		Period:           30,
		SecretCiphertext: "v1.ciphertext",
		SecretCreatedAt:  now,
		SortOrder:        int(id),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestDB(t *testing.T) {
	ctx := context.Background()
	s := NewDB(pgtest.New(t), instrument.NewNoop())

	require.NoError(t, s.CreateAccount(ctx, newAccount(1, 7, otp.TypeTOTP)))
	require.NoError(t, s.CreateAccount(ctx, newAccount(2, 7, otp.TypeHOTP)))
	require.NoError(t, s.CreateAccount(ctx, newAccount(3, 8, otp.TypeTOTP)))

	t.Run("CreateConflict", func(t *testing.T) {
		err := s.CreateAccount(ctx, newAccount(1, 7, otp.TypeTOTP))
		assert.ErrorIs(t, err, goerror.ErrConflict)
	})

	t.Run("GetAccount", func(t *testing.T) {
		acc, err := s.GetAccount(ctx, 1, 7, false)
		require.NoError(t, err)
		assert.Equal(t, otp.TypeTOTP, acc.Type)
		assert.Equal(t, uint(30), acc.Period)
		assert.Empty(t, acc.IconURL)
		assert.Nil(t, acc.DeletedAt)

		_, err = s.GetAccount(ctx, 1, 8, false)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("GetAccountList", func(t *testing.T) {
		list, err := s.GetAccountList(ctx, 7)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, int64(1), list[0].ID)
		assert.Equal(t, int64(2), list[1].ID)
	})

	t.Run("UpdateAccountDetails", func(t *testing.T) {
		err := s.UpdateAccountDetails(ctx, entity.AccountDetails{
			ID: 1, OwnerID: 7, Issuer: "Acme Corp", AccountName: "bob", IconURL: "https://acme.test/i.png",
		})
		require.NoError(t, err)

		acc, err := s.GetAccount(ctx, 1, 7, false)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", acc.Issuer)
		assert.Equal(t, "https://acme.test/i.png", acc.IconURL)

		err = s.UpdateAccountDetails(ctx, entity.AccountDetails{ID: 1, OwnerID: 8, Issuer: "x", AccountName: "y"})
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("UpdateAccountSortOrder", func(t *testing.T) {
		require.NoError(t, s.UpdateAccountSortOrder(ctx, 1, 7, 10))

		list, err := s.GetAccountList(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(2), list[0].ID)
		assert.Equal(t, int64(1), list[1].ID)
	})

	t.Run("AdvanceHOTPCounter", func(t *testing.T) {
		const n = 20

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = map[uint64]bool{}
		)
		for range n {
			wg.Go(func() {
				c, err := s.AdvanceHOTPCounter(ctx, 2, 7)
				assert.NoError(t, err)

				mu.Lock()
				seen[c] = true
				mu.Unlock()
			})
		}
		wg.Wait()

		assert.Len(t, seen, n, "every caller gets a distinct counter")
		acc, err := s.GetAccount(ctx, 2, 7, false)
		require.NoError(t, err)
		assert.Equal(t, uint64(n), acc.Counter)

		_, err = s.AdvanceHOTPCounter(ctx, 1, 7)
		assert.ErrorIs(t, err, goerror.ErrNotFound, "TOTP accounts have no counter")
	})

	t.Run("MarkAccountDeleted", func(t *testing.T) {
		require.NoError(t, s.MarkAccountDeleted(ctx, 3, 8))
		assert.ErrorIs(t, s.MarkAccountDeleted(ctx, 3, 8), goerror.ErrNotFound)

		_, err := s.GetAccount(ctx, 3, 8, false)
		assert.ErrorIs(t, err, goerror.ErrNotFound)

		acc, err := s.GetAccount(ctx, 3, 8, true)
		require.NoError(t, err)
		assert.NotNil(t, acc.DeletedAt)

		_, err = s.AdvanceHOTPCounter(ctx, 3, 8)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})
}
