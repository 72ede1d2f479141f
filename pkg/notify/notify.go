// Package notify publishes JSON events to NATS subjects. Publishing is
// fire-and-forget: a failed publish is reported to the caller but never
// rolls back the work that produced the event.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/nats-io/nats.go"

	"github.com/JaimeStill/steward/pkg/lifecycle"
)

// ErrNotConnected is returned by Publish before the startup hook has run.
var ErrNotConnected = errors.New("notify: not connected")

// System publishes events and participates in lifecycle coordination.
type System interface {
	// Start registers the connect and drain hooks.
	Start(lc *lifecycle.Coordinator) error
	// Publish marshals payload as JSON and sends it on prefix.subject.
	Publish(ctx context.Context, subject string, payload any) error
	// Ready reports whether the publisher can currently reach the server.
	Ready() bool
}

// New returns a NATS publisher, or a no-op publisher when cfg has no URL.
func New(cfg *Config, logger *slog.Logger) System {
	logger = logger.With("system", "notify")
	if !cfg.Enabled() {
		return &discard{logger: logger}
	}
	return &publisher{cfg: *cfg, logger: logger}
}

type publisher struct {
	cfg    Config
	conn   atomic.Pointer[nats.Conn]
	logger *slog.Logger
}

func (p *publisher) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting notify publisher", "url", p.cfg.URL)

	lc.OnStartup(func() {
		nc, err := nats.Connect(p.cfg.URL,
			nats.Name(p.cfg.Name),
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(p.cfg.MaxReconnects),
			nats.ReconnectWait(p.cfg.ReconnectWaitDuration()),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					p.logger.Warn("nats disconnected", "error", err)
				}
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				p.logger.Info("nats reconnected", "url", nc.ConnectedUrl())
			}),
		)
		if err != nil {
			p.logger.Error("nats connect failed", "error", err)
			return
		}
		p.conn.Store(nc)
		p.logger.Info("notify publisher connected")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		nc := p.conn.Swap(nil)
		if nc == nil {
			return
		}
		if err := nc.Drain(); err != nil {
			p.logger.Error("nats drain failed", "error", err)
			nc.Close()
			return
		}
		p.logger.Info("notify publisher drained")
	})

	return nil
}

func (p *publisher) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	nc := p.conn.Load()
	if nc == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", subject, err)
	}

	msg := nats.NewMsg(Subject(p.cfg.SubjectPrefix, subject))
	msg.Header.Set("Content-Type", "application/json")
	msg.Data = data

	if err := nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}
	return nil
}

func (p *publisher) Ready() bool {
	nc := p.conn.Load()
	return nc != nil && nc.IsConnected()
}

// Subject joins a prefix and a subject with a dot. An empty prefix
// returns subject unchanged.
func Subject(prefix, subject string) string {
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

type discard struct {
	logger *slog.Logger
}

func (d *discard) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("notify disabled, events will not be published")
	return nil
}

func (d *discard) Publish(ctx context.Context, subject string, payload any) error {
	d.logger.Debug("event discarded", "subject", subject)
	return nil
}

func (d *discard) Ready() bool {
	return true
}
