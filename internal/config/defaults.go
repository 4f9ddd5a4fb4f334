package config

import "time"

const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 90 * time.Second
	DefaultServerShutdownTimeout = 30 * time.Second
	DefaultServerMaxBodySize     = 1 << 20
	DefaultServerGenerateBurst   = 5

	DefaultDBHost             = "localhost"
	DefaultDBPort             = 5432
	DefaultDBName             = "contractpilot"
	DefaultDBSSLMode          = "disable"
	DefaultDBMaxOpenConns     = 25
	DefaultDBMaxIdleConns     = 10
	DefaultDBConnMaxLifetime  = 30 * time.Minute
	DefaultDBStatementTimeout = 30 * time.Second

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 20
	DefaultRedisKeyPrefix = "contractpilot:"
	DefaultLeadCacheTTL   = 5 * time.Minute

	DefaultKafkaTopic        = "contracts.generated"
	DefaultKafkaWriteTimeout = 10 * time.Second

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "contracts"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultReviewModel       = "gpt-4o-mini"
	DefaultReviewTemperature = 0.2
	DefaultReviewMaxTokens   = 2048
	DefaultReviewTimeout     = 45 * time.Second

	DefaultViewportWidth      = 1240
	DefaultViewportHeight     = 1754
	DefaultNetworkIdleTimeout = 30 * time.Second
	DefaultRenderTimeout      = 60 * time.Second
	DefaultPageFormat         = "A4"
	DefaultOrientation        = "portrait"
	DefaultMarginInches       = 0.6

	DefaultContractIDPrefix = "PMC"
	DefaultGeneratedBy      = "contractpilot"
	DefaultContractType     = "exclusive_marketing"
	DefaultStoragePrefix    = "contracts"
	DefaultStorageTimeout   = 20 * time.Second
	DefaultMetricsNamespace = "contractpilot"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills zero-value fields with defaults. Explicit values win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ──
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if cfg.Server.GenerateRateLimit > 0 && cfg.Server.GenerateBurst == 0 {
		cfg.Server.GenerateBurst = DefaultServerGenerateBurst
	}

	// ── Database ──
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDBMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultDBMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = DefaultDBConnMaxLifetime
	}
	if cfg.Database.StatementTimeout == 0 {
		cfg.Database.StatementTimeout = DefaultDBStatementTimeout
	}

	// ── Redis ──
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.LeadCacheTTL == 0 {
		cfg.Redis.LeadCacheTTL = DefaultLeadCacheTTL
	}

	// ── Kafka ──
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}

	// ── MinIO ──
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Log ──
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Review ──
	if cfg.Review.Model == "" {
		cfg.Review.Model = DefaultReviewModel
	}
	if cfg.Review.Temperature == 0 {
		cfg.Review.Temperature = DefaultReviewTemperature
	}
	if cfg.Review.MaxTokens == 0 {
		cfg.Review.MaxTokens = DefaultReviewMaxTokens
	}
	if cfg.Review.Timeout == 0 {
		cfg.Review.Timeout = DefaultReviewTimeout
	}

	// ── Renderer ──
	if cfg.Renderer.ViewportWidth == 0 {
		cfg.Renderer.ViewportWidth = DefaultViewportWidth
	}
	if cfg.Renderer.ViewportHeight == 0 {
		cfg.Renderer.ViewportHeight = DefaultViewportHeight
	}
	if cfg.Renderer.NetworkIdleTimeout == 0 {
		cfg.Renderer.NetworkIdleTimeout = DefaultNetworkIdleTimeout
	}
	if cfg.Renderer.RenderTimeout == 0 {
		cfg.Renderer.RenderTimeout = DefaultRenderTimeout
	}
	if cfg.Renderer.PageFormat == "" {
		cfg.Renderer.PageFormat = DefaultPageFormat
	}
	if cfg.Renderer.Orientation == "" {
		cfg.Renderer.Orientation = DefaultOrientation
	}
	if cfg.Renderer.MarginInches == 0 {
		cfg.Renderer.MarginInches = DefaultMarginInches
	}

	// ── Pipeline ──
	if cfg.Pipeline.ContractIDPrefix == "" {
		cfg.Pipeline.ContractIDPrefix = DefaultContractIDPrefix
	}
	if cfg.Pipeline.GeneratedBy == "" {
		cfg.Pipeline.GeneratedBy = DefaultGeneratedBy
	}
	if cfg.Pipeline.DefaultContractType == "" {
		cfg.Pipeline.DefaultContractType = DefaultContractType
	}
	if cfg.Pipeline.StoragePrefix == "" {
		cfg.Pipeline.StoragePrefix = DefaultStoragePrefix
	}
	if cfg.Pipeline.StorageTimeout == 0 {
		cfg.Pipeline.StorageTimeout = DefaultStorageTimeout
	}

	// ── Metrics ──
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
