package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/smartotp/internal/audit/inbound"
	"github.com/shandysiswandi/smartotp/internal/audit/outbound/db"
	"github.com/shandysiswandi/smartotp/internal/audit/usecase"
	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
	"github.com/shandysiswandi/smartotp/internal/pkg/config"
	"github.com/shandysiswandi/smartotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/messaging"
	"github.com/shandysiswandi/smartotp/internal/pkg/router"
	"github.com/shandysiswandi/smartotp/internal/pkg/uid"
	"github.com/shandysiswandi/smartotp/internal/pkg/validator"
)

type Dependency struct {
	// Ctx scopes the consumers; nil skips consumer registration.
	Ctx        context.Context
	DBConn     *pgxpool.Pool              `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAudit := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbAudit,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
