// Package pgtest starts a throwaway Postgres container with the schema
// migrated, for repository tests.
package pgtest

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/smartotp/internal/pkg/migration"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// New returns a pool connected to a fresh, migrated database. The test is
// skipped in short mode or when no container runtime is available.
func New(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), DSN(t))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// DSN starts a migrated database and returns its connection string.
func DSN(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("smartotp"),
		tcpostgres.WithUsername("smartotp"),
		tcpostgres.WithPassword("smartotp"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, migration.Up(dsn))

	return dsn
}
