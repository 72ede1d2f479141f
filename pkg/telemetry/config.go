package telemetry

import (
	"fmt"
	"os"
	"slices"
	"strconv"
)

// Exporter names accepted by Config.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

var exporters = []string{ExporterNone, ExporterStdout, ExporterOTLP}

// Config selects the span exporter and sampling for the tracer provider.
type Config struct {
	Exporter    string  `toml:"exporter"`
	Endpoint    string  `toml:"endpoint"`
	Insecure    bool    `toml:"insecure"`
	ServiceName string  `toml:"service_name"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Exporter    string
	Endpoint    string
	Insecure    string
	ServiceName string
	SampleRatio string
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
	if overlay.Exporter != "" {
		c.Exporter = overlay.Exporter
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Insecure {
		c.Insecure = true
	}
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
	if overlay.SampleRatio != 0 {
		c.SampleRatio = overlay.SampleRatio
	}
}

func (c *Config) loadDefaults() {
	if c.Exporter == "" {
		c.Exporter = ExporterNone
	}
	if c.ServiceName == "" {
		c.ServiceName = "steward"
	}
	if c.SampleRatio == 0 {
		c.SampleRatio = 1
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Exporter != "" {
		if v := os.Getenv(env.Exporter); v != "" {
			c.Exporter = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Insecure != "" {
		if v := os.Getenv(env.Insecure); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Insecure = b
			}
		}
	}
	if env.ServiceName != "" {
		if v := os.Getenv(env.ServiceName); v != "" {
			c.ServiceName = v
		}
	}
	if env.SampleRatio != "" {
		if v := os.Getenv(env.SampleRatio); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.SampleRatio = f
			}
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(exporters, c.Exporter) {
		return fmt.Errorf("unknown exporter %q (want one of %v)", c.Exporter, exporters)
	}
	if c.Exporter == ExporterOTLP && c.Endpoint == "" {
		return fmt.Errorf("endpoint required for otlp exporter")
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("sample_ratio must be within [0, 1]")
	}
	return nil
}
