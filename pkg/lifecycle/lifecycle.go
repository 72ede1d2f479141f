// Package lifecycle sequences the startup and shutdown of the service's
// long-lived subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator sequences the process: startup hooks run first, periodic tasks
// begin once they have all returned, and shutdown hooks drain when the
// context is cancelled.
type Coordinator struct {
	ctx     context.Context
	cancel  context.CancelFunc
	started chan struct{}
	once    sync.Once

	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	ready    atomic.Bool
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:     ctx,
		cancel:  cancel,
		started: make(chan struct{}),
	}
}

// Context is cancelled when Shutdown is called.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown registers a hook that is awaited by Shutdown. Hooks block on
// <-c.Context().Done() before releasing their resources.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until every startup hook has returned, then marks
// the coordinator ready and releases periodic tasks.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.once.Do(func() {
		c.ready.Store(true)
		close(c.started)
	})
}

// Every runs fn once per interval after startup completes and until shutdown
// begins. Shutdown waits for an in-flight run to return. A non-positive
// interval disables the task.
func (c *Coordinator) Every(interval time.Duration, fn func(ctx context.Context)) {
	if interval <= 0 {
		return
	}
	c.shutdown.Go(func() {
		select {
		case <-c.ctx.Done():
			return
		case <-c.started:
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.ctx.Done():
				return
			case <-ticker.C:
				if c.ctx.Err() != nil {
					return
				}
				fn(c.ctx)
			}
		}
	})
}

// Shutdown cancels the context, clears readiness, and waits up to timeout
// for shutdown hooks and periodic tasks to return.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown: hooks still running after %v", timeout)
	}
}
