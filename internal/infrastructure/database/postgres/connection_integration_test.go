//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
)

// startPostgres launches a PostgreSQL 16 container and returns its config.
func startPostgres(t *testing.T) postgres.PostgresConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "contractpilot_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	p, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return postgres.PostgresConfig{
		Host:     host,
		Port:     p,
		Database: "contractpilot_test",
		Username: "test",
		Password: "test",
		SSLMode:  "disable",
	}
}

func TestConnectionAndMigrations(t *testing.T) {
	cfg := startPostgres(t)
	ctx := context.Background()
	log := logging.NewNopLogger()

	conn, err := postgres.NewConnection(cfg, log)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.HealthCheck(ctx))

	m, err := postgres.NewMigrator(postgres.BuildDSN(cfg), log)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up())
	require.NoError(t, m.Up(), "re-running up is a no-op")

	version, dirty, err := m.Status()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	for _, table := range []string{"leads", "contracts", "contract_ai_reviews", "contract_notifications"} {
		var exists bool
		err := conn.DB().QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}

	t.Run("transaction rolls back on error", func(t *testing.T) {
		err := conn.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO leads (id) VALUES ('tx-lead')`); err != nil {
				return err
			}
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		var n int
		require.NoError(t, conn.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE id = 'tx-lead'`).Scan(&n))
		assert.Zero(t, n)
	})

	require.NoError(t, m.Down(1))
	version, _, err = m.Status()
	require.NoError(t, err)
	assert.Zero(t, version)
}

//Personal.AI order the ending
