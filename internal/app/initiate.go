package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
	"github.com/shandysiswandi/smartotp/internal/pkg/config"
	"github.com/shandysiswandi/smartotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/smartotp/internal/pkg/idempotency"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/jwt"
	"github.com/shandysiswandi/smartotp/internal/pkg/messaging"
	"github.com/shandysiswandi/smartotp/internal/pkg/migration"
	"github.com/shandysiswandi/smartotp/internal/pkg/router"
	"github.com/shandysiswandi/smartotp/internal/pkg/storage"
	"github.com/shandysiswandi/smartotp/internal/pkg/throttle"
	"github.com/shandysiswandi/smartotp/internal/pkg/uid"
	"github.com/shandysiswandi/smartotp/internal/pkg/validator"
	"github.com/shandysiswandi/smartotp/internal/pkg/vault"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const pubsubScope = "https://www.googleapis.com/auth/pubsub"

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake(a.config.GetInt64("app.node_id"))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) initVault() {
	provider, err := newKeyProvider(a.config)
	if err != nil {
		slog.Error("failed to init vault key provider", "error", err)
		os.Exit(1)
	}

	enc, err := vault.NewAESGCM(provider)
	if err != nil {
		slog.Error("failed to init vault encryptor", "error", err)
		os.Exit(1)
	}
	a.encryptor = enc
}

// newKeyProvider derives keys with HKDF when vault.key_version is set and
// uses the master key as is otherwise. Both write blobs tagged version 1, so
// moving an existing deployment between the two needs every secret
// re-encrypted.
func newKeyProvider(cfg config.Config) (vault.KeyProvider, error) {
	master, err := vault.ParseKey(cfg.GetString("vault.master_key"))
	if err != nil {
		return nil, err
	}
	defer clear(master)

	version := cfg.GetUint("vault.key_version")
	if version == 0 {
		static, err := vault.NewStaticKeyProvider(master)
		if err != nil {
			return nil, err
		}
		return static, nil
	}
	if version > math.MaxUint16 {
		return nil, fmt.Errorf("vault.key_version %d exceeds %d", version, math.MaxUint16)
	}

	derived, err := vault.NewHKDFKeyProvider(master, []byte(cfg.GetString("vault.salt")), uint16(version))
	if err != nil {
		return nil, err
	}
	return derived, nil
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetDuration("jwt.ttl"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = int32(a.config.GetInt("database.pool.max_conns")) //nolint:gosec // small config value
	config.MinConns = int32(a.config.GetInt("database.pool.min_conns")) //nolint:gosec // small config value
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := a.ping(pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initMigration() {
	if !a.config.GetBool("database.migrate_on_start") {
		return
	}

	if err := migration.Up(a.config.GetString("database.url")); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	if err := a.ping(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)

	switch driver := a.config.GetString("throttle.driver"); driver {
	case "memory":
		a.throttle = throttle.NewMemory(a.clock)
	case "redis", "":
		a.throttle = throttle.NewRedis(a.cacheConn, a.config.GetString("throttle.prefix"))
	default:
		slog.Error("failed to init throttle, unknown driver", "driver", driver)
		os.Exit(1)
	}
}

// ping retries fn with a capped fibonacci backoff until
// app.startup_timeout_seconds elapses.
func (a *App) ping(fn func(context.Context) error) error {
	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxDuration(a.config.GetSecond("app.startup_timeout_seconds"), b)

	return retry.Do(a.ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := fn(pingCtx); err != nil {
			slog.Warn("dependency not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}

		return nil
	})
}

// googleOptions reads service account credentials for Google clients from
// <prefix>.credentials_file or <prefix>.credentials_json.
func (a *App) googleOptions(prefix string, scopes ...string) []option.ClientOption {
	opts := []option.ClientOption{}
	if a.config.GetBool(prefix + ".without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}

	credsJSON := a.config.GetBinary(prefix + ".credentials_json")
	if v := strings.TrimSpace(a.config.GetString(prefix + ".credentials_file")); v != "" {
		// #nosec G304 -- path is from trusted config file.
		data, err := os.ReadFile(v)
		if err != nil {
			slog.Error("failed to read google credentials file", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		credsJSON = data
	}
	if len(credsJSON) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, scopes...)
		if err != nil {
			slog.Error("failed to parse google credentials", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	if v := strings.TrimSpace(a.config.GetString(prefix + ".endpoint")); v != "" {
		opts = append(opts, option.WithEndpoint(v))
	}

	return opts
}

func (a *App) initStorage() {
	driver := strings.TrimSpace(a.config.GetString("storage.driver"))

	var gcsOptions []option.ClientOption
	if driver == storage.DriverGCS {
		gcsOptions = a.googleOptions("storage.gcs", gcs.ScopeFullControl)
	}

	stg, err := storage.NewFromDriver(a.ctx, driver, storage.FactoryOptions{
		S3: storage.S3Options{
			Bucket:       strings.TrimSpace(a.config.GetString("storage.s3.bucket")),
			Region:       strings.TrimSpace(a.config.GetString("storage.s3.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.s3.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.s3.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.s3.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.s3.session_token")),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		GCS: storage.GCSOptions{
			Bucket:         strings.TrimSpace(a.config.GetString("storage.gcs.bucket")),
			GoogleAccessID: strings.TrimSpace(a.config.GetString("storage.gcs.signer_access_id")),
			PrivateKey:     a.config.GetBinary("storage.gcs.signer_private_key"),
			ClientOptions:  gcsOptions,
		},
		MinIO: storage.MinIOOptions{
			Bucket:       strings.TrimSpace(a.config.GetString("storage.minio.bucket")),
			Region:       strings.TrimSpace(a.config.GetString("storage.minio.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.minio.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.minio.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.minio.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.minio.session_token")),
			UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	if err != nil {
		slog.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	if stg == nil {
		slog.Info("storage driver not configured, account export disabled")
		return
	}

	a.storage = stg
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")

	var pubsubOptions []option.ClientOption
	if driver == messaging.DriverGooglePubSub {
		pubsubOptions = a.googleOptions("messaging.pubsub", pubsubScope)
	}

	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
			Dialer: &kafka.Dialer{
				ClientID:  a.config.GetString("messaging.kafka.client_id"),
				Timeout:   a.config.GetSecond("messaging.kafka.dial_timeout_seconds"),
				DualStack: true,
			},
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: pubsubOptions,
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{router.HeaderCorrelationID},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				if a.storage == nil {
					return nil
				}

				return a.storage.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
