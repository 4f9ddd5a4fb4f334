// Package config provides configuration loading, defaults, and validation for
// the ContractPilot services.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration tree. Every section maps to a top-level
// YAML key and to CONTRACTPILOT_<SECTION>_<FIELD> environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Log      LogConfig      `mapstructure:"log"`
	Review   ReviewConfig   `mapstructure:"review"`
	Renderer RendererConfig `mapstructure:"renderer"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	// CORSAllowedOrigins enables cross-origin access for the listed origins.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	// GenerateRateLimit caps preview and generate calls per client and second.
	// Zero disables the limit.
	GenerateRateLimit float64 `mapstructure:"generate_rate_limit"`
	GenerateBurst     int     `mapstructure:"generate_burst"`
}

type DatabaseConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	DBName           string        `mapstructure:"dbname"`
	SSLMode          string        `mapstructure:"sslmode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	AutoMigrate      bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	LeadCacheTTL time.Duration `mapstructure:"lead_cache_ttl"`
}

type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	RequiredAcks int           `mapstructure:"required_acks"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	// PublicBaseURL overrides the scheme://endpoint part of public document URLs.
	PublicBaseURL string `mapstructure:"public_base_url"`
	// PublicPrefix is granted anonymous read when the bucket is first created.
	PublicPrefix string `mapstructure:"public_prefix"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// ReviewConfig configures the external text-generation service used for
// automated legal review.
type ReviewConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RendererConfig configures the headless browser used for PDF output.
type RendererConfig struct {
	ExecPath           string        `mapstructure:"exec_path"`
	Headful            bool          `mapstructure:"headful"`
	NoSandbox          bool          `mapstructure:"no_sandbox"`
	ViewportWidth      int           `mapstructure:"viewport_width"`
	ViewportHeight     int           `mapstructure:"viewport_height"`
	NetworkIdleTimeout time.Duration `mapstructure:"network_idle_timeout"`
	RenderTimeout      time.Duration `mapstructure:"render_timeout"`
	PageFormat         string        `mapstructure:"page_format"`
	Orientation        string        `mapstructure:"orientation"`
	MarginInches       float64       `mapstructure:"margin_inches"`
}

type PipelineConfig struct {
	ContractIDPrefix    string        `mapstructure:"contract_id_prefix"`
	GeneratedBy         string        `mapstructure:"generated_by"`
	DefaultContractType string        `mapstructure:"default_contract_type"`
	StoragePrefix       string        `mapstructure:"storage_prefix"`
	StorageTimeout      time.Duration `mapstructure:"storage_timeout"`
	// EnableDrafting asks the review service for additional clauses before review.
	EnableDrafting bool `mapstructure:"enable_drafting"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// DSN builds a libpq-style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Validate reports the first invalid setting. Call after ApplyDefaults.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q must be debug, release or test", c.Server.Mode)
	}
	if c.Server.GenerateRateLimit < 0 {
		return fmt.Errorf("config: server.generate_rate_limit must not be negative")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("config: kafka.topic is required when kafka is enabled")
	}
	if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
		return fmt.Errorf("config: minio.endpoint and minio.bucket are required")
	}
	if c.Review.Enabled && c.Review.BaseURL == "" {
		return fmt.Errorf("config: review.base_url is required when review is enabled")
	}
	if c.Review.Temperature < 0 || c.Review.Temperature > 2 {
		return fmt.Errorf("config: review.temperature %.2f must be within [0,2]", c.Review.Temperature)
	}
	if c.Renderer.ViewportWidth <= 0 || c.Renderer.ViewportHeight <= 0 {
		return fmt.Errorf("config: renderer viewport must be positive")
	}
	switch strings.ToLower(c.Renderer.Orientation) {
	case "portrait", "landscape":
	default:
		return fmt.Errorf("config: renderer.orientation %q must be portrait or landscape", c.Renderer.Orientation)
	}
	if strings.TrimSpace(c.Pipeline.ContractIDPrefix) == "" {
		return fmt.Errorf("config: pipeline.contract_id_prefix is required")
	}
	return nil
}

//Personal.AI order the ending
