package inbound

import (
	"context"

	"github.com/shandysiswandi/smartotp/internal/audit/usecase"
)

type uc interface {
	RecordLog(ctx context.Context, in usecase.RecordLogInput) error
	LogList(ctx context.Context, in usecase.LogListInput) (*usecase.LogListOutput, error)
}
