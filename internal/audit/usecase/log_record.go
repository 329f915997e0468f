package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shandysiswandi/smartotp/internal/audit/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

type RecordLogInput struct {
	OwnerID       int64 `validate:"gte=0"`
	Action        event.AuditAction
	Success       bool
	Details       string `validate:"max=2000"`
	ErrorMessage  string `validate:"max=1000"`
	IPAddress     string `validate:"max=45"`
	UserAgent     string
	CorrelationID string `validate:"max=64"`
	OccurredAt    time.Time
}

// RecordLog stores one audit record. Records that can never be stored are
// dropped with a log line so the broker does not redeliver them forever.
func (s *Usecase) RecordLog(ctx context.Context, in RecordLogInput) error {
	ctx, span := s.startSpan(ctx, "RecordLog")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "audit record dropped by validation", "action", in.Action.String(), "error", err)
		return nil
	}
	if !in.Action.Valid() {
		slog.ErrorContext(ctx, "audit record dropped with unknown action", "action", int16(in.Action))
		return nil
	}

	if in.CorrelationID == "" {
		in.CorrelationID = instrument.GetCorrelationID(ctx)
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = s.clock.Now()
	}
	in.UserAgent = truncateUTF8(strings.ToValidUTF8(in.UserAgent, ""), maxUserAgentBytes)

	log := entity.Log{
		ID:            s.uid.Generate(),
		OwnerID:       in.OwnerID,
		Action:        in.Action,
		Success:       in.Success,
		Details:       in.Details,
		ErrorMessage:  in.ErrorMessage,
		IPAddress:     in.IPAddress,
		UserAgent:     in.UserAgent,
		CorrelationID: in.CorrelationID,
		CreatedAt:     in.OccurredAt,
	}

	if err := s.repoDB.CreateLog(ctx, log); err != nil {
		slog.ErrorContext(ctx, "failed to repo create audit log", "action", in.Action.String(), "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

const maxUserAgentBytes = 500

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
