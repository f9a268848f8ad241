// Package health runs the background connection re-test sweep that keeps
// integration statuses and last-sync timestamps fresh between admin actions.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/studypilot/studypilot/internal/integrations"
)

const probeTimeout = 30 * time.Second

// Checker periodically re-tests the connection of every configured instance.
type Checker struct {
	registry *integrations.Registry
	schedule string // cron spec, e.g. "@every 10m"
	cron     *robfigcron.Cron
}

func NewChecker(registry *integrations.Registry, schedule string) *Checker {
	if schedule == "" {
		schedule = "@every 10m"
	}
	return &Checker{
		registry: registry,
		schedule: schedule,
		cron:     robfigcron.New(),
	}
}

// Start registers the sweep and starts the scheduler.
func (c *Checker) Start() error {
	if _, err := c.cron.AddFunc(c.schedule, c.Sweep); err != nil {
		return fmt.Errorf("schedule health sweep %q: %w", c.schedule, err)
	}
	c.cron.Start()
	slog.Info("health checker started", "schedule", c.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (c *Checker) Stop() {
	<-c.cron.Stop().Done()
	slog.Info("health checker stopped")
}

// Sweep re-tests every instance once. Failures only flip instance status;
// they never abort the sweep.
func (c *Checker) Sweep() {
	for _, inst := range c.registry.List() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		report, err := c.registry.TestConnection(ctx, inst.ID)
		cancel()

		if err != nil {
			// Instance deleted between List and TestConnection.
			continue
		}
		if !report.Success {
			slog.Warn("health sweep: integration unhealthy", "id", inst.ID, "err", report.Error)
		}
	}
}
