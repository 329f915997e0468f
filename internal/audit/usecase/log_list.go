package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/smartotp/internal/audit/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

type LogListInput struct {
	Action string // action name such as OTP_VERIFIED; empty means all
	Page   int32
	Size   int32
}

type LogListOutput struct {
	Page  int32
	Size  int32
	Total int64
	Logs  []entity.Log
}

// LogList pages through the caller's audit records, newest first.
func (s *Usecase) LogList(ctx context.Context, in LogListInput) (*LogListOutput, error) {
	ctx, span := s.startSpan(ctx, "LogList")
	defer span.End()

	ownerID, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 20 // default limit
	}
	in.Page = max(in.Page, 1)

	filter := entity.LogListFilter{
		OwnerID: ownerID,
		Size:    in.Size,
		Offset:  (in.Page - 1) * in.Size,
	}
	if action := strings.ToUpper(strings.TrimSpace(in.Action)); action != "" {
		filter.Action = event.ParseAuditAction(action)
		if !filter.Action.Valid() {
			return nil, goerror.NewInvalidInput(nil, "action", "action is not a known audit action")
		}
		filter.IsFilterByAction = true
	}

	logs, total, err := s.repoDB.GetLogList(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list audit logs", "owner_id", ownerID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LogListOutput{
		Page:  in.Page,
		Size:  in.Size,
		Total: total,
		Logs:  logs,
	}, nil
}
