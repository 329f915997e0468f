package migration

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/otp?sslmode=disable", pgx5URL("postgres://u:p@db:5432/otp?sslmode=disable"))
	assert.Equal(t, "pgx5://u:p@db/otp", pgx5URL("postgresql://u:p@db/otp"))
	assert.Equal(t, "pgx5://db/otp", pgx5URL("pgx5://db/otp"))
}

func TestUpDown(t *testing.T) {
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

	require.NoError(t, Up(dsn))
	require.NoError(t, Up(dsn), "second run is a no-op")

	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(ctx) })

	var tables int
	err = conn.QueryRow(ctx, `SELECT count(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name IN ('otp_accounts', 'audit_logs')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)

	require.NoError(t, Down(dsn))
	err = conn.QueryRow(ctx, `SELECT count(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name IN ('otp_accounts', 'audit_logs')`).Scan(&tables)
	require.NoError(t, err)
	assert.Zero(t, tables)
}
