package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/smartotp/internal/audit/entity"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

const (
	queryCreateLog = `INSERT INTO audit_logs
	(id, owner_id, action, success, details, error_message, ip_address, user_agent, correlation_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	// $2 false disables the action filter.
	queryGetLogList = `SELECT id, owner_id, action, success, details, error_message, ip_address, user_agent,
	correlation_id, created_at, count(*) OVER () AS total
	FROM audit_logs
	WHERE owner_id = $1 AND (NOT $2 OR action = $3)
	ORDER BY created_at DESC, id DESC
	LIMIT $4 OFFSET $5`
)

type logRow struct {
	ID            int64       `db:"id"`
	OwnerID       pgtype.Int8 `db:"owner_id"`
	Action        int16       `db:"action"`
	Success       bool        `db:"success"`
	Details       string      `db:"details"`
	ErrorMessage  string      `db:"error_message"`
	IPAddress     string      `db:"ip_address"`
	UserAgent     string      `db:"user_agent"`
	CorrelationID string      `db:"correlation_id"`
	CreatedAt     time.Time   `db:"created_at"`
	Total         int64       `db:"total"`
}

func (s *DB) CreateLog(ctx context.Context, log entity.Log) (err error) {
	ctx, span := s.startSpan(ctx, "CreateLog")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateLog,
		log.ID,
		pgtype.Int8{Int64: log.OwnerID, Valid: log.OwnerID > 0},
		int16(log.Action),
		log.Success,
		log.Details,
		log.ErrorMessage,
		log.IPAddress,
		log.UserAgent,
		log.CorrelationID,
		log.CreatedAt,
	)
	return s.mapError(err)
}

func (s *DB) GetLogList(ctx context.Context, filter entity.LogListFilter) (_ []entity.Log, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetLogList")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryGetLogList,
		filter.OwnerID,
		filter.IsFilterByAction,
		int16(filter.Action),
		filter.Size,
		filter.Offset,
	)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	result, err := pgx.CollectRows(rows, pgx.RowToStructByName[logRow])
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	var total int64
	logs := make([]entity.Log, 0, len(result))
	for _, r := range result {
		total = r.Total
		logs = append(logs, entity.Log{
			ID:            r.ID,
			OwnerID:       r.OwnerID.Int64,
			Action:        event.AuditAction(r.Action),
			Success:       r.Success,
			Details:       r.Details,
			ErrorMessage:  r.ErrorMessage,
			IPAddress:     r.IPAddress,
			UserAgent:     r.UserAgent,
			CorrelationID: r.CorrelationID,
			CreatedAt:     r.CreatedAt,
		})
	}

	return logs, total, nil
}
