package main

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ContractPilot/internal/app"
	"github.com/turtacn/ContractPilot/internal/config"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ContractPilot/internal/infrastructure/render"
)

func testContainer(t *testing.T) (*app.Container, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logging.NewNopLogger()
	return &app.Container{
		Config:  config.NewDefaultConfig(),
		Logger:  log,
		DB:      postgres.NewConnectionWithDB(db, log),
		Browser: render.NewBrowserManager(render.BrowserConfig{}, log),
	}, mock
}

func TestHealthCheckers_OnlyStartedClients(t *testing.T) {
	c, mock := testContainer(t)

	checks := healthCheckers(c)
	var names []string
	for _, ch := range checks {
		names = append(names, ch.Name())
	}
	assert.Equal(t, []string{"postgres", "browser"}, names)

	mock.ExpectPing()
	assert.NoError(t, checks[0].Check(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterConfig_Defaults(t *testing.T) {
	c, _ := testContainer(t)

	rc := routerConfig(c, logging.NewNopLogger())
	assert.NotNil(t, rc.ContractHandler)
	assert.NotNil(t, rc.RiskHandler)
	assert.NotNil(t, rc.HealthHandler)
	assert.Nil(t, rc.CORS)
	assert.Nil(t, rc.Metrics)
	assert.Nil(t, rc.MetricsHandler)
	assert.Equal(t, c.Config.Server.MaxBodySize, rc.MaxBodySize)
	assert.Zero(t, rc.RateLimit.RequestsPerSecond)
}

func TestRouterConfig_CORSAndMetrics(t *testing.T) {
	c, _ := testContainer(t)
	c.Config.Server.CORSAllowedOrigins = []string{"https://app.example.com"}
	c.Config.Server.GenerateRateLimit = 2
	c.Config.Server.GenerateBurst = 4

	col, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, logging.NewNopLogger())
	require.NoError(t, err)
	c.Collector = col
	c.AppMetrics = prometheus.NewAppMetrics(col)

	rc := routerConfig(c, logging.NewNopLogger())
	require.NotNil(t, rc.CORS)
	assert.Equal(t, []string{"https://app.example.com"}, rc.CORS.AllowedOrigins)
	assert.NotNil(t, rc.Metrics)
	assert.NotNil(t, rc.MetricsHandler)
	assert.Equal(t, "/metrics", rc.MetricsPath)
	assert.Equal(t, 2.0, rc.RateLimit.RequestsPerSecond)
	assert.Equal(t, 4, rc.RateLimit.BurstSize)
}

//Personal.AI order the ending
