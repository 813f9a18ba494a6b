package simulation

import (
	"context"
	"log/slog"
	"time"
)

// Releaser is the injector's release step, invoked once per tick while the
// clock is running.
type Releaser interface {
	Release(ctx context.Context, now time.Time)
}

// Runner is the single external driver of the clock: a wall-clock ticker
// that advances simulated time and triggers the order release step.
type Runner struct {
	log      *slog.Logger
	clock    *Clock
	releaser Releaser
	interval time.Duration
}

func NewRunner(log *slog.Logger, clock *Clock, releaser Releaser, interval time.Duration) *Runner {
	return &Runner{log: log, clock: clock, releaser: releaser, interval: interval}
}

func (r *Runner) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("simulation runner stopping")
			return
		case <-t.C:
			if !r.clock.IsRunning() {
				continue
			}
			r.clock.Tick()
			if r.clock.IsRunning() {
				r.releaser.Release(ctx, r.clock.Now())
			}
		}
	}
}
