package notify

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds NATS connection parameters. An empty URL disables publishing.
type Config struct {
	URL           string `toml:"url"`
	Name          string `toml:"name"`
	SubjectPrefix string `toml:"subject_prefix"`
	MaxReconnects int    `toml:"max_reconnects"`
	ReconnectWait string `toml:"reconnect_wait"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	URL           string
	Name          string
	SubjectPrefix string
	MaxReconnects string
	ReconnectWait string
}

// Enabled reports whether a NATS URL is configured.
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// ReconnectWaitDuration returns ReconnectWait as a time.Duration.
func (c *Config) ReconnectWaitDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReconnectWait)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.SubjectPrefix != "" {
		c.SubjectPrefix = overlay.SubjectPrefix
	}
	if overlay.MaxReconnects != 0 {
		c.MaxReconnects = overlay.MaxReconnects
	}
	if overlay.ReconnectWait != "" {
		c.ReconnectWait = overlay.ReconnectWait
	}
}

func (c *Config) loadDefaults() {
	if c.Name == "" {
		c.Name = "steward"
	}
	if c.SubjectPrefix == "" {
		c.SubjectPrefix = "steward"
	}
	if c.MaxReconnects == 0 {
		c.MaxReconnects = 5
	}
	if c.ReconnectWait == "" {
		c.ReconnectWait = "1s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.URL != "" {
		if v := os.Getenv(env.URL); v != "" {
			c.URL = v
		}
	}
	if env.Name != "" {
		if v := os.Getenv(env.Name); v != "" {
			c.Name = v
		}
	}
	if env.SubjectPrefix != "" {
		if v := os.Getenv(env.SubjectPrefix); v != "" {
			c.SubjectPrefix = v
		}
	}
	if env.MaxReconnects != "" {
		if v := os.Getenv(env.MaxReconnects); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxReconnects = n
			}
		}
	}
	if env.ReconnectWait != "" {
		if v := os.Getenv(env.ReconnectWait); v != "" {
			c.ReconnectWait = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ReconnectWait); err != nil {
		return fmt.Errorf("invalid reconnect_wait: %w", err)
	}
	if c.MaxReconnects < -1 {
		return fmt.Errorf("max_reconnects must be -1 (unlimited) or greater")
	}
	return nil
}
