package main

import (
	"context"
	"time"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
)

// Server ties the HTTP listener and the expiry sweep to the infrastructure
// lifecycle.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
	sweep   time.Duration
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
		sweep:   cfg.Assessments.SweepIntervalDuration(),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	if s.sweep > 0 {
		s.infra.Logger.Info("expiry sweep scheduled", "interval", s.sweep)
		s.infra.Lifecycle.Every(s.sweep, s.runSweep)
	}

	return nil
}

func (s *Server) runSweep(ctx context.Context) {
	if !s.infra.Ready() {
		s.infra.Logger.Warn("expiry sweep skipped, not ready")
		return
	}

	started := time.Now()
	result, err := s.modules.Domain.Assessments.Sweep(ctx, started)
	if err != nil {
		s.infra.Logger.Error("expiry sweep failed", "error", err)
		return
	}
	s.infra.Logger.Info(
		"expiry sweep complete",
		"checked", result.Checked,
		"alerts", len(result.Alerts),
		"duration", time.Since(started),
	)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)
	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return err
	}
	s.infra.Logger.Info("shutdown complete")
	return nil
}
