package database

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds PostgreSQL connection and pool settings. StatementTimeout
// bounds every statement on the pool, including waits on the per-building
// ledger lock.
type Config struct {
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	Name             string `toml:"name"`
	User             string `toml:"user"`
	Password         string `toml:"password"`
	SSLMode          string `toml:"ssl_mode"`
	ApplicationName  string `toml:"application_name"`
	StatementTimeout string `toml:"statement_timeout"`
	MaxOpenConns     int    `toml:"max_open_conns"`
	MaxIdleConns     int    `toml:"max_idle_conns"`
	ConnMaxLifetime  string `toml:"conn_max_lifetime"`
	ConnTimeout      string `toml:"conn_timeout"`
}

// Env names the environment variables that override Config.
type Env struct {
	Host             string
	Port             string
	Name             string
	User             string
	Password         string
	SSLMode          string
	ApplicationName  string
	StatementTimeout string
	MaxOpenConns     string
	MaxIdleConns     string
	ConnMaxLifetime  string
	ConnTimeout      string
}

func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

func (c *Config) StatementTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.StatementTimeout)
	return d
}

// URL returns the bare postgres:// URL used by the migration tool.
func (c *Config) URL() string {
	return c.url(url.Values{"sslmode": {c.SSLMode}})
}

// Dsn returns the URL the service pool connects with. It adds the
// application name and statement timeout as session parameters.
func (c *Config) Dsn() string {
	params := url.Values{"sslmode": {c.SSLMode}}
	if c.ApplicationName != "" {
		params.Set("application_name", c.ApplicationName)
	}
	if d := c.StatementTimeoutDuration(); d > 0 {
		params.Set("statement_timeout", strconv.FormatInt(d.Milliseconds(), 10))
	}
	return c.url(params)
}

func (c *Config) url(params url.Values) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: params.Encode(),
	}
	return u.String()
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields that are set in overlay.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.Host, overlay.Host)
	mergeInt(&c.Port, overlay.Port)
	mergeString(&c.Name, overlay.Name)
	mergeString(&c.User, overlay.User)
	mergeString(&c.Password, overlay.Password)
	mergeString(&c.SSLMode, overlay.SSLMode)
	mergeString(&c.ApplicationName, overlay.ApplicationName)
	mergeString(&c.StatementTimeout, overlay.StatementTimeout)
	mergeInt(&c.MaxOpenConns, overlay.MaxOpenConns)
	mergeInt(&c.MaxIdleConns, overlay.MaxIdleConns)
	mergeString(&c.ConnMaxLifetime, overlay.ConnMaxLifetime)
	mergeString(&c.ConnTimeout, overlay.ConnTimeout)
}

func (c *Config) loadDefaults() {
	c.Host = fallback(c.Host, "localhost")
	c.Port = fallbackInt(c.Port, 5432)
	c.SSLMode = fallback(c.SSLMode, "disable")
	c.ApplicationName = fallback(c.ApplicationName, "steward")
	c.StatementTimeout = fallback(c.StatementTimeout, "30s")
	c.MaxOpenConns = fallbackInt(c.MaxOpenConns, 25)
	c.MaxIdleConns = fallbackInt(c.MaxIdleConns, 5)
	c.ConnMaxLifetime = fallback(c.ConnMaxLifetime, "15m")
	c.ConnTimeout = fallback(c.ConnTimeout, "5s")
}

func (c *Config) loadEnv(env *Env) {
	mergeString(&c.Host, getenv(env.Host))
	mergeInt(&c.Port, getenvInt(env.Port))
	mergeString(&c.Name, getenv(env.Name))
	mergeString(&c.User, getenv(env.User))
	mergeString(&c.Password, getenv(env.Password))
	mergeString(&c.SSLMode, getenv(env.SSLMode))
	mergeString(&c.ApplicationName, getenv(env.ApplicationName))
	mergeString(&c.StatementTimeout, getenv(env.StatementTimeout))
	mergeInt(&c.MaxOpenConns, getenvInt(env.MaxOpenConns))
	mergeInt(&c.MaxIdleConns, getenvInt(env.MaxIdleConns))
	mergeString(&c.ConnMaxLifetime, getenv(env.ConnMaxLifetime))
	mergeString(&c.ConnTimeout, getenv(env.ConnTimeout))
}

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.User == "" {
		return fmt.Errorf("user required")
	}
	for name, v := range map[string]string{
		"conn_max_lifetime": c.ConnMaxLifetime,
		"conn_timeout":      c.ConnTimeout,
		"statement_timeout": c.StatementTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func fallbackInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func getenv(key string) string {
	if key == "" {
		return ""
	}
	return os.Getenv(key)
}

func getenvInt(key string) int {
	n, _ := strconv.Atoi(getenv(key))
	return n
}
