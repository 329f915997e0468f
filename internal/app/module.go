package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/smartotp/internal/audit"
	"github.com/shandysiswandi/smartotp/internal/authenticator"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.authenticator.enabled") {
		if err := authenticator.New(authenticator.Dependency{
			DBConn:      a.dbConn,
			Router:      a.router,
			Throttle:    a.throttle,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Encryptor:   a.encryptor,
			Storage:     a.storage,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module authenticator", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.audit.enabled") {
		if err := audit.New(audit.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module audit", "error", err)
			os.Exit(1)
		}
	}
}
