// Package config loads the service configuration from TOML files and
// STEWARD_ environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/steward/pkg/database"
	"github.com/JaimeStill/steward/pkg/notify"
	"github.com/JaimeStill/steward/pkg/storage"
	"github.com/JaimeStill/steward/pkg/telemetry"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvStewardEnv             = "STEWARD_ENV"
	EnvStewardShutdownTimeout = "STEWARD_SHUTDOWN_TIMEOUT"
	EnvStewardVersion         = "STEWARD_VERSION"
	EnvStewardLogLevel        = "STEWARD_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Host:             "STEWARD_DB_HOST",
	Port:             "STEWARD_DB_PORT",
	Name:             "STEWARD_DB_NAME",
	User:             "STEWARD_DB_USER",
	Password:         "STEWARD_DB_PASSWORD",
	SSLMode:          "STEWARD_DB_SSL_MODE",
	ApplicationName:  "STEWARD_DB_APPLICATION_NAME",
	StatementTimeout: "STEWARD_DB_STATEMENT_TIMEOUT",
	MaxOpenConns:     "STEWARD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:     "STEWARD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime:  "STEWARD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:      "STEWARD_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "STEWARD_STORAGE_CONTAINER_NAME",
	ConnectionString: "STEWARD_STORAGE_CONNECTION_STRING",
	AccountURL:       "STEWARD_STORAGE_ACCOUNT_URL",
	ClientID:         "STEWARD_STORAGE_CLIENT_ID",
}

var notifyEnv = &notify.Env{
	URL:           "STEWARD_NATS_URL",
	Name:          "STEWARD_NATS_NAME",
	SubjectPrefix: "STEWARD_NATS_SUBJECT_PREFIX",
	MaxReconnects: "STEWARD_NATS_MAX_RECONNECTS",
	ReconnectWait: "STEWARD_NATS_RECONNECT_WAIT",
}

var telemetryEnv = &telemetry.Env{
	Exporter:    "STEWARD_OTEL_EXPORTER",
	Endpoint:    "STEWARD_OTEL_ENDPOINT",
	Insecure:    "STEWARD_OTEL_INSECURE",
	ServiceName: "STEWARD_OTEL_SERVICE_NAME",
	SampleRatio: "STEWARD_OTEL_SAMPLE_RATIO",
}

// Config is the root configuration for the Steward service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	Notify          notify.Config     `toml:"notify"`
	Telemetry       telemetry.Config  `toml:"telemetry"`
	API             APIConfig         `toml:"api"`
	Assessments     AssessmentsConfig `toml:"assessments"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	LogLevel        string            `toml:"log_level"`
	Version         string            `toml:"version"`
}

// Env returns the STEWARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvStewardEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Notify.Merge(&overlay.Notify)
	c.Telemetry.Merge(&overlay.Telemetry)
	c.API.Merge(&overlay.API)
	c.Assessments.Merge(&overlay.Assessments)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Notify.Finalize(notifyEnv); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if err := c.Telemetry.Finalize(telemetryEnv); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Assessments.Finalize(); err != nil {
		return fmt.Errorf("assessments: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvStewardShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvStewardLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvStewardVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvStewardEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
