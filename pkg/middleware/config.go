package middleware

import (
	"os"
	"strconv"
	"strings"
)

// CORSConfig is the cross-origin policy for browser clients of the API.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables that override CORSConfig. List
// values are comma-separated.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

func (c *CORSConfig) Finalize(env *CORSEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge applies an overlay. Booleans always apply, so an overlay can turn
// CORS off; lists apply when set and MaxAge when not negative.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.AllowedMethods != nil {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if overlay.AllowedHeaders != nil {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
	if overlay.MaxAge >= 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

func (c *CORSConfig) loadEnv(env *CORSEnv) {
	if v, ok := envBool(env.Enabled); ok {
		c.Enabled = v
	}
	if v := envList(env.Origins); v != nil {
		c.Origins = v
	}
	if v := envList(env.AllowedMethods); v != nil {
		c.AllowedMethods = v
	}
	if v := envList(env.AllowedHeaders); v != nil {
		c.AllowedHeaders = v
	}
	if v, ok := envBool(env.AllowCredentials); ok {
		c.AllowCredentials = v
	}
	if v, ok := envInt(env.MaxAge); ok {
		c.MaxAge = v
	}
}

func envList(key string) []string {
	if key == "" {
		return nil
	}
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var out []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envBool(key string) (bool, bool) {
	if key == "" {
		return false, false
	}
	v, err := strconv.ParseBool(os.Getenv(key))
	return v, err == nil
}

func envInt(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	v, err := strconv.Atoi(os.Getenv(key))
	return v, err == nil
}
