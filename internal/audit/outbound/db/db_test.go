package db

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/smartotp/internal/audit/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/pgtest"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Logs(t *testing.T) {
	ctx := context.Background()
	s := NewDB(pgtest.New(t), instrument.NewNoop())

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	actions := []event.AuditAction{
		event.AuditActionOtpGenerated,
		event.AuditActionOtpVerified,
		event.AuditActionOtpVerificationFailed,
		event.AuditActionOtpVerified,
	}
	for i, a := range actions {
		require.NoError(t, s.CreateLog(ctx, entity.Log{
			ID:            int64(i + 1),
			OwnerID:       7,
			Action:        a,
			Success:       a != event.AuditActionOtpVerificationFailed,
			Details:       "Acme - bob",
			IPAddress:     "10.0.0.1",
			CorrelationID: "corr",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.CreateLog(ctx, entity.Log{ID: 99, OwnerID: 8, Action: event.AuditActionOtpVerified, CreatedAt: base}))

	t.Run("NewestFirstPaged", func(t *testing.T) {
		logs, total, err := s.GetLogList(ctx, entity.LogListFilter{OwnerID: 7, Size: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, logs, 2)
		assert.Equal(t, int64(4), logs[0].ID)
		assert.Equal(t, int64(3), logs[1].ID)

		logs, _, err = s.GetLogList(ctx, entity.LogListFilter{OwnerID: 7, Size: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, int64(2), logs[0].ID)
	})

	t.Run("ActionFilter", func(t *testing.T) {
		logs, total, err := s.GetLogList(ctx, entity.LogListFilter{
			OwnerID: 7, Action: event.AuditActionOtpVerified, IsFilterByAction: true, Size: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, l := range logs {
			assert.Equal(t, event.AuditActionOtpVerified, l.Action)
			assert.Equal(t, "10.0.0.1", l.IPAddress)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		logs, total, err := s.GetLogList(ctx, entity.LogListFilter{OwnerID: 1, Size: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, logs)
	})
}
