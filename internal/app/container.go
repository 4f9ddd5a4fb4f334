// Package app assembles the contract pipeline and its infrastructure from
// configuration. Both the API server and the CLI build on it.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	"github.com/turtacn/ContractPilot/internal/config"
	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres/repositories"
	redisinfra "github.com/turtacn/ContractPilot/internal/infrastructure/database/redis"
	"github.com/turtacn/ContractPilot/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ContractPilot/internal/infrastructure/render"
	"github.com/turtacn/ContractPilot/internal/infrastructure/storage/minio"
	"github.com/turtacn/ContractPilot/internal/intelligence/review"
)

const browserShutdownTimeout = 10 * time.Second

// Container holds every long-lived client of a process. Optional clients
// (Redis, MinIO, Kafka) are nil when disabled or unreachable at start-up.
type Container struct {
	Config *config.Config
	Logger logging.Logger

	DB            *postgres.Connection
	Leads         *repositories.LeadRepo
	Contracts     *repositories.ContractRepo
	Notifications *repositories.NotificationRepo

	Redis    *redisinfra.Client
	MinIO    *minio.MinIOClient
	Browser  *render.BrowserManager
	Producer *kafka.Producer

	Collector  prometheus.MetricsCollector
	AppMetrics *prometheus.AppMetrics

	Service appcontract.ContractService
}

// New connects to the configured infrastructure and builds the contract
// service. PostgreSQL is mandatory; Redis, MinIO and Kafka degrade to
// uncached, inline-document and event-less operation when unavailable.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Container{Config: cfg, Logger: logger}

	db, err := postgres.NewConnection(PostgresConfig(cfg.Database), logger)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	c.DB = db

	if cfg.Database.AutoMigrate {
		if err := RunMigrations(cfg.Database, logger); err != nil {
			c.Close(ctx)
			return nil, err
		}
	}

	c.Leads = repositories.NewPostgresLeadRepo(db, logger)
	c.Contracts = repositories.NewPostgresContractRepo(db, logger)
	c.Notifications = repositories.NewPostgresNotificationRepo(db, logger)

	if cfg.Redis.Enabled {
		rc, err := redisinfra.NewClient(RedisConfig(cfg.Redis), logger)
		if err != nil {
			logger.Warn("redis unavailable, lead cache disabled", logging.Err(err))
		} else {
			c.Redis = rc
		}
	}

	mc, err := minio.NewMinIOClient(ctx, MinIOConfig(cfg.MinIO), logger)
	if err != nil {
		logger.Warn("object storage unavailable, documents will be served inline", logging.Err(err))
	} else {
		c.MinIO = mc
	}

	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(ProducerConfig(cfg.Kafka), logger)
		if err != nil {
			c.Close(ctx)
			return nil, fmt.Errorf("kafka: %w", err)
		}
		c.Producer = p
	}

	if cfg.Metrics.Enabled {
		col, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			c.Close(ctx)
			return nil, fmt.Errorf("metrics: %w", err)
		}
		c.Collector = col
		c.AppMetrics = prometheus.NewAppMetrics(col)
	}

	c.Browser = render.NewBrowserManager(BrowserConfig(cfg.Renderer), logger)

	svc, err := c.buildService()
	if err != nil {
		c.Close(ctx)
		return nil, err
	}
	c.Service = svc

	logger.Info("application initialized",
		logging.Bool("redis", c.Redis != nil),
		logging.Bool("object_storage", c.MinIO != nil),
		logging.Bool("events", c.Producer != nil),
		logging.Bool("review", cfg.Review.Enabled),
		logging.Bool("metrics", c.AppMetrics != nil))
	return c, nil
}

func (c *Container) buildService() (appcontract.ContractService, error) {
	cfg := c.Config

	var leads domainContract.LeadRepository = c.Leads
	if c.Redis != nil {
		cache := redisinfra.NewRedisCache(c.Redis, c.Logger,
			redisinfra.WithPrefix(cfg.Redis.KeyPrefix),
			redisinfra.WithDefaultTTL(cfg.Redis.LeadCacheTTL))
		leads = redisinfra.NewCachedLeadRepository(c.Leads, cache, cfg.Redis.LeadCacheTTL, c.Logger)
	}

	var store render.ObjectStore
	if c.MinIO != nil {
		store = minio.NewDocumentStore(c.MinIO, c.Logger)
	}
	documents := render.NewDocumentService(
		render.MustNewHTMLSerializer(),
		render.NewPDFRenderer(c.Browser, cfg.Renderer.NetworkIdleTimeout),
		store,
		c.Logger,
		render.WithPathPrefix(cfg.Pipeline.StoragePrefix),
		render.WithStorageTimeout(cfg.Pipeline.StorageTimeout),
		render.WithDefaultRenderOptions(RenderDefaults(cfg.Renderer)),
	)

	reviewer, err := NewReviewer(cfg.Review, c.Logger)
	if err != nil {
		return nil, err
	}

	deps := appcontract.ServiceDeps{
		Leads:         leads,
		Contracts:     c.Contracts,
		Notifications: c.Notifications,
		Risk:          appcontract.NewRiskEngine(),
		Assembler: appcontract.NewAssembler(appcontract.DefaultTemplateCatalog(),
			cfg.Pipeline.ContractIDPrefix, cfg.Pipeline.GeneratedBy),
		Policy:   appcontract.DefaultApprovalPolicy(),
		Reviewer: reviewer,
		Drafter:  reviewer,
		Renderer: documents,
		Logger:   c.Logger,
	}
	if c.Producer != nil {
		deps.Events = kafka.NewContractEventPublisher(c.Producer, cfg.Kafka.Topic, c.Logger)
	}
	if c.AppMetrics != nil {
		deps.Metrics = prometheus.NewPipelineMetrics(c.AppMetrics)
	}

	svc, err := appcontract.NewContractService(deps, ServiceConfig(cfg.Pipeline, cfg.Renderer))
	if err != nil {
		return nil, fmt.Errorf("contract service: %w", err)
	}
	return svc, nil
}

// Close releases clients in reverse start-up order. Safe on a partially
// built container.
func (c *Container) Close(ctx context.Context) {
	if c.Browser != nil {
		sctx, cancel := context.WithTimeout(ctx, browserShutdownTimeout)
		if err := c.Browser.Shutdown(sctx); err != nil {
			c.Logger.Warn("browser shutdown failed", logging.Err(err))
		}
		cancel()
	}
	if c.Producer != nil {
		if err := c.Producer.Close(); err != nil {
			c.Logger.Warn("kafka producer close failed", logging.Err(err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("redis close failed", logging.Err(err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("postgres close failed", logging.Err(err))
		}
	}
}

// RunMigrations applies every pending schema migration.
func RunMigrations(db config.DatabaseConfig, logger logging.Logger) error {
	m, err := postgres.NewMigrator(postgres.BuildDSN(PostgresConfig(db)), logger)
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}
	defer m.Close()
	return m.Up()
}

// NewReviewer builds the legal reviewer. With review disabled every review
// is the static fallback.
func NewReviewer(cfg config.ReviewConfig, logger logging.Logger) (*review.Reviewer, error) {
	rcfg := review.Config{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}
	if !cfg.Enabled {
		return review.NewReviewer(nil, rcfg, logger), nil
	}
	client, err := review.NewHTTPClient(review.ClientConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("review client: %w", err)
	}
	return review.NewReviewer(client, rcfg, logger), nil
}

func PostgresConfig(db config.DatabaseConfig) postgres.PostgresConfig {
	return postgres.PostgresConfig{
		Host:             db.Host,
		Port:             db.Port,
		Database:         db.DBName,
		Username:         db.User,
		Password:         db.Password,
		SSLMode:          db.SSLMode,
		MaxOpenConns:     db.MaxOpenConns,
		MaxIdleConns:     db.MaxIdleConns,
		ConnMaxLifetime:  db.ConnMaxLifetime,
		StatementTimeout: db.StatementTimeout,
	}
}

func RedisConfig(r config.RedisConfig) redisinfra.RedisConfig {
	return redisinfra.RedisConfig{
		Addrs:    splitList(r.Addr),
		Password: r.Password,
		DB:       r.DB,
		PoolSize: r.PoolSize,
	}
}

func MinIOConfig(m config.MinIOConfig) minio.MinIOConfig {
	return minio.MinIOConfig{
		Endpoint:      m.Endpoint,
		AccessKey:     m.AccessKey,
		SecretKey:     m.SecretKey,
		UseSSL:        m.UseSSL,
		Region:        m.Region,
		Bucket:        m.Bucket,
		PublicPrefix:  m.PublicPrefix,
		PublicBaseURL: m.PublicBaseURL,
	}
}

func ProducerConfig(k config.KafkaConfig) kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers:      k.Brokers,
		RequiredAcks: k.RequiredAcks,
		WriteTimeout: k.WriteTimeout,
	}
}

func BrowserConfig(r config.RendererConfig) render.BrowserConfig {
	return render.BrowserConfig{
		ExecPath:       r.ExecPath,
		Headful:        r.Headful,
		NoSandbox:      r.NoSandbox,
		ViewportWidth:  r.ViewportWidth,
		ViewportHeight: r.ViewportHeight,
		PageTimeout:    r.RenderTimeout,
	}
}

// RenderDefaults maps renderer settings onto document render options.
// Header, footer and background printing keep the package defaults.
func RenderDefaults(r config.RendererConfig) render.RenderOptions {
	opts := *render.DefaultRenderOptions()
	if r.PageFormat != "" {
		opts.PageSize = render.PageSize(r.PageFormat)
	}
	if r.Orientation != "" {
		opts.Orientation = render.Orientation(strings.ToLower(r.Orientation))
	}
	if r.MarginInches > 0 {
		m := render.UniformMargins(r.MarginInches)
		opts.Margins = &m
	}
	return opts
}

func ServiceConfig(p config.PipelineConfig, r config.RendererConfig) *appcontract.ServiceConfig {
	sc := appcontract.DefaultServiceConfig()
	if p.DefaultContractType != "" {
		sc.DefaultContractType = domainContract.Type(p.DefaultContractType)
	}
	sc.EnableDrafting = p.EnableDrafting
	if r.RenderTimeout > 0 {
		sc.RenderTimeout = r.RenderTimeout
	}
	return sc
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

//Personal.AI order the ending
