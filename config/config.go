// Package config loads the application configuration from a YAML file,
// with environment variable overrides for the fields that differ between
// deployments.
package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Services   ServicesConfig   `yaml:"services"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// ServicesConfig points at the companion service fronting the scan
// hardware and the product catalog. When BaseURL is set, folder and item
// persistence also go through it instead of the local database.
type ServicesConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"SERVICES_BASE_URL"`
	UseRemoteStore bool          `yaml:"use_remote_store"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
}

// IngestConfig configures the push-channel listener.
type IngestConfig struct {
	Enabled      bool          `yaml:"enabled" envconfig:"INGEST_ENABLED"`
	StreamURL    string        `yaml:"stream_url" envconfig:"INGEST_STREAM_URL"`
	RetrySeconds int           `yaml:"retry_seconds"`
	Retry        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver" envconfig:"DATABASE_DRIVER"`
	DSN                    string `yaml:"dsn" envconfig:"DATABASE_DSN"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key" envconfig:"PUSH_VAPID_PUBLIC_KEY"`
	PrivateKey string `yaml:"vapid_private_key" envconfig:"PUSH_VAPID_PRIVATE_KEY"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path, applies environment
// overrides and fills defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := envconfig.Process("smartcart", &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}

	if cfg.Services.TimeoutSeconds <= 0 {
		cfg.Services.TimeoutSeconds = 30
	}
	cfg.Services.Timeout = time.Duration(cfg.Services.TimeoutSeconds) * time.Second

	if cfg.Ingest.RetrySeconds <= 0 {
		cfg.Ingest.RetrySeconds = 5
	}
	cfg.Ingest.Retry = time.Duration(cfg.Ingest.RetrySeconds) * time.Second
	if cfg.Ingest.StreamURL == "" && cfg.Services.BaseURL != "" {
		cfg.Ingest.StreamURL = cfg.Services.BaseURL + "/api/events"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "smartcart.db"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}
}
