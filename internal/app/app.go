package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
	"github.com/shandysiswandi/smartotp/internal/pkg/config"
	"github.com/shandysiswandi/smartotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/smartotp/internal/pkg/idempotency"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/jwt"
	"github.com/shandysiswandi/smartotp/internal/pkg/messaging"
	"github.com/shandysiswandi/smartotp/internal/pkg/router"
	"github.com/shandysiswandi/smartotp/internal/pkg/storage"
	"github.com/shandysiswandi/smartotp/internal/pkg/throttle"
	"github.com/shandysiswandi/smartotp/internal/pkg/uid"
	"github.com/shandysiswandi/smartotp/internal/pkg/validator"
	"github.com/shandysiswandi/smartotp/internal/pkg/vault"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT
	encryptor vault.Encryptor

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	throttle  throttle.Counter
	idemp     idempotency.Guard
	messaging messaging.Messaging
	storage   storage.Storage

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initVault()
	app.initJWT()
	app.initDatabase()
	app.initMigration()
	app.initCache()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
