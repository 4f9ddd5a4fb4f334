package main

import (
	"context"
	"time"

	"github.com/turtacn/ContractPilot/internal/app"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/ContractPilot/internal/interfaces/http"
	"github.com/turtacn/ContractPilot/internal/interfaces/http/handlers"
	"github.com/turtacn/ContractPilot/internal/interfaces/http/middleware"
)

const browserStatsInterval = 15 * time.Second

// healthCheckers adapts the container's clients for /readyz. Optional
// clients that were not started are left out.
func healthCheckers(c *app.Container) []handlers.HealthChecker {
	checks := []handlers.HealthChecker{
		handlers.NamedCheck("postgres", c.DB.HealthCheck),
	}
	if c.Redis != nil {
		checks = append(checks, handlers.NamedCheck("redis", c.Redis.Ping))
	}
	if c.MinIO != nil {
		checks = append(checks, handlers.NamedCheck("minio", c.MinIO.HealthCheck))
	}
	// Init is a no-op once the browser is up; the first probe launches it.
	checks = append(checks, handlers.NamedCheck("browser", c.Browser.Init))
	return checks
}

func routerConfig(c *app.Container, logger logging.Logger) httpserver.RouterConfig {
	cfg := c.Config

	health := handlers.NewHealthHandler(version, healthCheckers(c)...)
	rc := httpserver.RouterConfig{
		ContractHandler: handlers.NewContractHandler(c.Service, logger),
		RiskHandler:     handlers.NewRiskHandler(c.Service),
		HealthHandler:   health,
		Logger:          logger,
		LoggingConfig:   middleware.DefaultLoggingConfig(),
		MaxBodySize:     cfg.Server.MaxBodySize,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.Server.GenerateRateLimit,
			BurstSize:         cfg.Server.GenerateBurst,
		},
	}
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.CORSAllowedOrigins
		rc.CORS = &cors
	}
	if c.AppMetrics != nil {
		health.WithObserver(c.AppMetrics.SetHealth)
		rc.Metrics = c.AppMetrics
		rc.MetricsHandler = c.Collector.Handler()
		rc.MetricsPath = cfg.Metrics.Path
	}
	return rc
}

// recordBrowserStats samples browser gauges until ctx is done.
func recordBrowserStats(ctx context.Context, c *app.Container) {
	if c.AppMetrics == nil {
		return
	}
	t := time.NewTicker(browserStatsInterval)
	defer t.Stop()
	for {
		c.AppMetrics.RecordBrowser(c.Browser)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

//Personal.AI order the ending
