package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "CONTRACTPILOT"

// bindKeys lists every leaf key so that AutomaticEnv can resolve variables
// for keys absent from the YAML file during Unmarshal.
var bindKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.shutdown_timeout", "server.max_body_size", "server.cors_allowed_origins",
	"server.generate_rate_limit", "server.generate_burst",
	"database.host", "database.port", "database.user", "database.password", "database.dbname",
	"database.sslmode", "database.max_open_conns", "database.max_idle_conns",
	"database.conn_max_lifetime", "database.statement_timeout", "database.auto_migrate",
	"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.key_prefix", "redis.lead_cache_ttl",
	"kafka.enabled", "kafka.brokers", "kafka.topic", "kafka.required_acks", "kafka.write_timeout",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.use_ssl", "minio.region",
	"minio.bucket", "minio.public_base_url", "minio.public_prefix",
	"log.level", "log.format", "log.output_paths",
	"review.enabled", "review.base_url", "review.api_key", "review.model", "review.temperature",
	"review.max_tokens", "review.timeout",
	"renderer.exec_path", "renderer.headful", "renderer.no_sandbox", "renderer.viewport_width",
	"renderer.viewport_height", "renderer.network_idle_timeout", "renderer.render_timeout",
	"renderer.page_format", "renderer.orientation", "renderer.margin_inches",
	"pipeline.contract_id_prefix", "pipeline.generated_by", "pipeline.default_contract_type",
	"pipeline.storage_prefix", "pipeline.storage_timeout", "pipeline.enable_drafting",
	"metrics.enabled", "metrics.namespace", "metrics.path",
}

// newViper returns a viper instance with YAML type, the CONTRACTPILOT_ env
// prefix and "." → "_" key mapping (database.host → CONTRACTPILOT_DATABASE_HOST).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range bindKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges environment overrides,
// applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from CONTRACTPILOT_* variables only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadFromFile loads configPath when it exists and falls back to the
// environment otherwise. An empty path means environment only.
func LoadFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return LoadFromEnv()
		}
		return nil, fmt.Errorf("config: stat %q: %w", configPath, err)
	}
	return Load(configPath)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch re-parses configPath on every write and calls onChange with the new
// Config. Invalid revisions are reported through onError and skipped. Only
// settings that are safe to change at runtime (log level) should be applied.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad panics when Load fails. Intended for main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
