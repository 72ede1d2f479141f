// Package infrastructure provides core service initialization for application startup.
// It assembles the shared systems (logging, database, storage, event
// publishing, tracing) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/pkg/database"
	"github.com/JaimeStill/steward/pkg/lifecycle"
	"github.com/JaimeStill/steward/pkg/notify"
	"github.com/JaimeStill/steward/pkg/storage"
	"github.com/JaimeStill/steward/pkg/telemetry"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Notify    notify.System
	Telemetry telemetry.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	tel, err := telemetry.New(&cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Notify:    notify.New(&cfg.Notify, logger),
		Telemetry: tel,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Notify.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("notify start failed: %w", err)
	}
	if err := i.Telemetry.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("telemetry start failed: %w", err)
	}
	return nil
}

// Ready reports whether startup has finished and every readiness-aware
// system can serve traffic.
func (i *Infrastructure) Ready() bool {
	checks := []lifecycle.ReadinessChecker{i.Lifecycle, i.Database, i.Storage, i.Notify}
	for _, c := range checks {
		if !c.Ready() {
			return false
		}
	}
	return true
}
