package storage

import (
	"fmt"
	"os"
)

// Config holds Azure Blob Storage connection parameters. Either
// ConnectionString or AccountURL must be set. AccountURL authenticates as
// the user-assigned managed identity named by ClientID, or through the
// default credential chain when ClientID is empty.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	ClientID         string `toml:"client_id"`
}

type Env struct {
	ContainerName    string
	ConnectionString string
	AccountURL       string
	ClientID         string
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "compliance-documents"
	}
}

func (c *Config) loadEnv(env *Env) {
	for _, f := range []struct {
		key string
		dst *string
	}{
		{env.ContainerName, &c.ContainerName},
		{env.ConnectionString, &c.ConnectionString},
		{env.AccountURL, &c.AccountURL},
		{env.ClientID, &c.ClientID},
	} {
		if f.key == "" {
			continue
		}
		if v := os.Getenv(f.key); v != "" {
			*f.dst = v
		}
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" && c.AccountURL == "" {
		return fmt.Errorf("connection_string or account_url required")
	}
	if c.ClientID != "" && c.AccountURL == "" {
		return fmt.Errorf("client_id requires account_url")
	}
	return nil
}
