package usecase

import (
	"context"

	"github.com/shandysiswandi/smartotp/internal/audit/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/jwt"
	"github.com/shandysiswandi/smartotp/internal/pkg/uid"
	"github.com/shandysiswandi/smartotp/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateLog(ctx context.Context, log entity.Log) error
	GetLogList(ctx context.Context, filter entity.LogListFilter) ([]entity.Log, int64, error)
}

type Usecase struct {
	repoDB    repoDB
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("audit.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.OwnerID <= 0 {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return clm.OwnerID, nil
}
