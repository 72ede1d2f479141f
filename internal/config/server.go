package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "STEWARD_SERVER_HOST"
	EnvServerPort              = "STEWARD_SERVER_PORT"
	EnvServerReadTimeout       = "STEWARD_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "STEWARD_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "STEWARD_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "STEWARD_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "STEWARD_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener settings. Timeouts are Go duration
// strings. The write timeout must cover a full batch analysis.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration       { return duration(c.ReadTimeout) }
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration { return duration(c.ReadHeaderTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration      { return duration(c.WriteTimeout) }
func (c *ServerConfig) IdleTimeoutDuration() time.Duration       { return duration(c.IdleTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration   { return duration(c.ShutdownTimeout) }

func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, f := range c.timeouts(overlay) {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}

type timeoutField struct {
	name     string
	env      string
	fallback string
	dst      *string
	src      *string
}

// timeouts lists the duration fields with their env keys and defaults.
// When overlay is non-nil each entry also points at the overlay's field.
func (c *ServerConfig) timeouts(overlay *ServerConfig) []timeoutField {
	fields := []timeoutField{
		{"read_timeout", EnvServerReadTimeout, "1m", &c.ReadTimeout, nil},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "10s", &c.ReadHeaderTimeout, nil},
		{"write_timeout", EnvServerWriteTimeout, "5m", &c.WriteTimeout, nil},
		{"idle_timeout", EnvServerIdleTimeout, "2m", &c.IdleTimeout, nil},
		{"shutdown_timeout", EnvServerShutdownTimeout, "30s", &c.ShutdownTimeout, nil},
	}
	if overlay != nil {
		src := []*string{
			&overlay.ReadTimeout, &overlay.ReadHeaderTimeout, &overlay.WriteTimeout,
			&overlay.IdleTimeout, &overlay.ShutdownTimeout,
		}
		for i := range fields {
			fields[i].src = src[i]
		}
	}
	return fields
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.timeouts(nil) {
		if *f.dst == "" {
			*f.dst = f.fallback
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.timeouts(nil) {
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.timeouts(nil) {
		if _, err := time.ParseDuration(*f.dst); err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
