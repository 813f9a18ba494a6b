package simulation

import (
	"log/slog"
	"sync"
	"time"
)

// TimeLayout is the wire/seed format for simulated timestamps.
const TimeLayout = "2006-01-02T15:04:05"

func ParseSimTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// Clock owns virtual time. It is advanced only by Tick, driven by a single
// Runner; other components read the current time concurrently.
type Clock struct {
	log         *slog.Logger
	start       time.Time
	end         time.Time
	tickSeconds int
	speedFactor float64

	mu      sync.Mutex
	current time.Time
	running bool
}

func NewClock(log *slog.Logger, start, end time.Time, tickSeconds int, speedFactor float64) *Clock {
	c := &Clock{
		log:         log,
		start:       start,
		end:         end,
		tickSeconds: tickSeconds,
		speedFactor: speedFactor,
		current:     start,
		running:     true,
	}
	log.Info("simulation clock initialized",
		"start", start.Format(TimeLayout),
		"end", end.Format(TimeLayout),
		"tick_seconds", tickSeconds,
		"speed_factor", speedFactor,
	)
	return c
}

// Tick advances the current time by tickSeconds*speedFactor whole seconds.
// Once the end time is reached the clock stops permanently.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	secondsToAdd := int(float64(c.tickSeconds) * c.speedFactor)
	c.current = c.current.Add(time.Duration(secondsToAdd) * time.Second)

	if !c.current.Before(c.end) {
		c.running = false
		c.log.Info("simulation ended", "time", c.current.Format(TimeLayout))
	}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && !c.current.After(c.end)
}

// InRange reports whether t falls inside the simulation window, both ends
// inclusive.
func (c *Clock) InRange(t time.Time) bool {
	return !t.Before(c.start) && !t.After(c.end)
}

// Progress is the elapsed share of the simulation window, clamped to [0, 1].
func (c *Clock) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.end.Sub(c.start).Seconds()
	if total <= 0 {
		return 1.0
	}
	elapsed := c.current.Sub(c.start).Seconds()
	return min(1.0, max(0.0, elapsed/total))
}
