package authenticator

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/smartotp/internal/authenticator/inbound"
	"github.com/shandysiswandi/smartotp/internal/authenticator/outbound/db"
	"github.com/shandysiswandi/smartotp/internal/authenticator/outbound/mq"
	"github.com/shandysiswandi/smartotp/internal/authenticator/usecase"
	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
	"github.com/shandysiswandi/smartotp/internal/pkg/config"
	"github.com/shandysiswandi/smartotp/internal/pkg/idempotency"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/messaging"
	"github.com/shandysiswandi/smartotp/internal/pkg/router"
	"github.com/shandysiswandi/smartotp/internal/pkg/storage"
	"github.com/shandysiswandi/smartotp/internal/pkg/throttle"
	"github.com/shandysiswandi/smartotp/internal/pkg/uid"
	"github.com/shandysiswandi/smartotp/internal/pkg/validator"
	"github.com/shandysiswandi/smartotp/internal/pkg/vault"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Throttle    throttle.Counter           `validate:"required"`
	Idempotency idempotency.Guard          `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Encryptor   vault.Encryptor            `validate:"required"`
	Storage     storage.Storage            // nil disables export
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbOTP := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Clock, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbOTP,
		RepoMessaging: repoMsg,
		Throttle:      dep.Throttle,
		Idempotency:   dep.Idempotency,
		Encryptor:     dep.Encryptor,
		Storage:       dep.Storage,
		Validator:     dep.Validator,
		Config:        dep.Config,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
