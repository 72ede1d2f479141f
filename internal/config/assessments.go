package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAssessmentsBatchLimit    = "STEWARD_ASSESSMENTS_BATCH_LIMIT"
	EnvAssessmentsBatchMax      = "STEWARD_ASSESSMENTS_BATCH_MAX"
	EnvAssessmentsSweepInterval = "STEWARD_ASSESSMENTS_SWEEP_INTERVAL"
	EnvAssessmentsSystemUser    = "STEWARD_ASSESSMENTS_SYSTEM_USER"
)

// AssessmentsConfig tunes batch analysis and the expiry sweep.
type AssessmentsConfig struct {
	// BatchLimit bounds concurrent analyses within one batch request.
	BatchLimit int `toml:"batch_limit"`
	// BatchMax bounds the number of documents in one batch request.
	BatchMax int `toml:"batch_max"`
	// SweepInterval schedules the expiry sweep. Empty or "0" disables it;
	// the sweep endpoint remains available.
	SweepInterval string `toml:"sweep_interval"`
	// SystemUser is recorded as created_by on entries produced by the sweep.
	SystemUser string `toml:"system_user"`
}

// SweepIntervalDuration returns SweepInterval as a time.Duration, zero when unset.
func (c *AssessmentsConfig) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AssessmentsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AssessmentsConfig) Merge(overlay *AssessmentsConfig) {
	if overlay.BatchLimit != 0 {
		c.BatchLimit = overlay.BatchLimit
	}
	if overlay.BatchMax != 0 {
		c.BatchMax = overlay.BatchMax
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
	if overlay.SystemUser != "" {
		c.SystemUser = overlay.SystemUser
	}
}

func (c *AssessmentsConfig) loadDefaults() {
	if c.BatchLimit == 0 {
		c.BatchLimit = 4
	}
	if c.BatchMax == 0 {
		c.BatchMax = 50
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "0"
	}
	if c.SystemUser == "" {
		c.SystemUser = "system"
	}
}

func (c *AssessmentsConfig) loadEnv() {
	if v := os.Getenv(EnvAssessmentsBatchLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchLimit = n
		}
	}
	if v := os.Getenv(EnvAssessmentsBatchMax); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchMax = n
		}
	}
	if v := os.Getenv(EnvAssessmentsSweepInterval); v != "" {
		c.SweepInterval = v
	}
	if v := os.Getenv(EnvAssessmentsSystemUser); v != "" {
		c.SystemUser = v
	}
}

func (c *AssessmentsConfig) validate() error {
	if c.BatchLimit < 1 {
		return fmt.Errorf("batch_limit must be positive")
	}
	if c.BatchMax < 1 {
		return fmt.Errorf("batch_max must be positive")
	}
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil {
		return fmt.Errorf("invalid sweep_interval: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("sweep_interval must not be negative")
	}
	return nil
}
