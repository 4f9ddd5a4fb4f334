//go:build integration

// Package integration runs the contract pipeline against real PostgreSQL
// (testcontainers) and an in-process Redis. Object storage, Kafka and the
// review service are left unconfigured, so documents take the inline path
// and reviews the static fallback.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/ContractPilot/internal/app"
	"github.com/turtacn/ContractPilot/internal/config"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/ContractPilot/internal/interfaces/http"
	"github.com/turtacn/ContractPilot/internal/interfaces/http/handlers"
)

// TestEnvironment is one running application with its backing services.
type TestEnvironment struct {
	Ctx       context.Context
	Cfg       *config.Config
	Container *app.Container
	Server    *httptest.Server
	Redis     *miniredis.Miniredis
}

// SetupTestEnvironment starts PostgreSQL and Redis, migrates the schema and
// serves the API on an httptest server. Everything is torn down via t.Cleanup.
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	ctx := context.Background()

	cfg := config.NewDefaultConfig()
	cfg.Database = startPostgres(t)
	cfg.Database.AutoMigrate = true

	mr := miniredis.RunT(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()

	// Nothing listens here; the store is skipped and documents stay inline.
	cfg.MinIO.Endpoint = "127.0.0.1:1"
	cfg.Renderer.ExecPath = "/nonexistent/chrome"
	cfg.Renderer.RenderTimeout = 10 * time.Second
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "it"

	logger := logging.NewNopLogger()
	c, err := app.New(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(context.Background()) })

	health := handlers.NewHealthHandler("it", handlers.NamedCheck("postgres", c.DB.HealthCheck))
	router := httpserver.NewRouter(httpserver.RouterConfig{
		ContractHandler: handlers.NewContractHandler(c.Service, logger),
		RiskHandler:     handlers.NewRiskHandler(c.Service),
		HealthHandler:   health,
		Logger:          logger,
		MaxBodySize:     cfg.Server.MaxBodySize,
		Metrics:         c.AppMetrics,
		MetricsHandler:  c.Collector.Handler(),
		MetricsPath:     cfg.Metrics.Path,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &TestEnvironment{Ctx: ctx, Cfg: cfg, Container: c, Server: srv, Redis: mr}
}

func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "contractpilot_it",
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

	db := config.NewDefaultConfig().Database
	db.Host, db.Port = host, p
	db.User, db.Password, db.DBName = "test", "test", "contractpilot_it"
	return db
}

// DoJSON sends body as JSON and decodes the response into out when non-nil.
func (e *TestEnvironment) DoJSON(t *testing.T, method, path string, body, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(e.Ctx, method, e.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 60 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

//Personal.AI order the ending
