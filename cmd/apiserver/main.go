// API server entry point for ContractPilot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/ContractPilot/internal/app"
	"github.com/turtacn/ContractPilot/internal/config"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/ContractPilot/internal/interfaces/http"
)

const defaultConfigPath = "configs/config.yaml"

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *httpPort); err != nil {
		fmt.Fprintf(os.Stderr, "contractpilot: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, httpPort int) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return err
	}
	if httpPort > 0 {
		cfg.Server.Port = httpPort
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logging.SetDefault(logger)
	logger.Info("starting ContractPilot API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("build_date", buildDate),
		logging.Int("http_port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", logging.Err(err))
		return err
	}
	defer c.Close(context.Background())

	watchLogLevel(configPath, logger)
	go recordBrowserStats(ctx, c)

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, httpserver.NewRouter(routerConfig(c, logger)), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server error", logging.Err(err))
		}
		return err
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	logger.Info("ContractPilot API server stopped")
	return nil
}

// watchLogLevel applies log.level changes from the config file without a
// restart. Other settings need a restart.
func watchLogLevel(configPath string, logger logging.Logger) {
	setter, ok := logger.(logging.LevelSetter)
	if !ok {
		return
	}
	if _, err := os.Stat(configPath); err != nil {
		return
	}
	err := config.Watch(configPath,
		func(cfg *config.Config) {
			setter.SetLevel(cfg.Log.Level)
			logger.Info("log level updated", logging.String("level", cfg.Log.Level))
		},
		func(err error) {
			logger.Warn("ignoring invalid config change", logging.Err(err))
		})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
