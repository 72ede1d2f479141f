package openapi

import (
	"os"
	"strings"
)

// Config holds the document metadata. Servers lists extra base URLs, such
// as a public gateway, advertised next to the API base path.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv names the environment variables that override Config.
// Servers is read as a comma-separated list.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if len(overlay.Servers) > 0 {
		c.Servers = overlay.Servers
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Steward API"
	}
	if c.Description == "" {
		c.Description = "Compliance document classification and Golden Thread record keeping for residential buildings."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if v := lookup(env.Title); v != "" {
		c.Title = v
	}
	if v := lookup(env.Description); v != "" {
		c.Description = v
	}
	if v := lookup(env.Servers); v != "" {
		c.Servers = nil
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
}

func lookup(key string) string {
	if key == "" {
		return ""
	}
	return os.Getenv(key)
}
