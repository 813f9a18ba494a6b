package simulation

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := ParseSimTime(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return ts
}

func TestTickAdvancesBySpeedFactor(t *testing.T) {
	start := mustParse(t, "2024-01-13T08:00:00")
	end := mustParse(t, "2024-01-13T18:00:00")
	c := NewClock(testLogger(), start, end, 10, 2.0)

	c.Tick()

	want := start.Add(20 * time.Second)
	if !c.Now().Equal(want) {
		t.Errorf("expected %v, got %v", want, c.Now())
	}
}

func TestTickTruncatesFractionalSeconds(t *testing.T) {
	start := mustParse(t, "2024-01-13T08:00:00")
	end := mustParse(t, "2024-01-13T18:00:00")
	c := NewClock(testLogger(), start, end, 1, 2.5)

	c.Tick()

	// 1 * 2.5 truncates to 2 whole seconds.
	want := start.Add(2 * time.Second)
	if !c.Now().Equal(want) {
		t.Errorf("expected %v, got %v", want, c.Now())
	}
}

func TestClockStopsAtEndTimeAndNeverRestarts(t *testing.T) {
	start := mustParse(t, "2024-01-13T08:00:00")
	end := mustParse(t, "2024-01-13T08:00:02")
	c := NewClock(testLogger(), start, end, 1, 1.0)

	if !c.IsRunning() {
		t.Fatal("expected clock to start running")
	}

	c.Tick()
	if !c.IsRunning() {
		t.Fatal("expected clock running before end time")
	}

	c.Tick()
	if c.IsRunning() {
		t.Fatal("expected clock stopped at end time")
	}

	// Further ticks are no-ops.
	stopped := c.Now()
	c.Tick()
	c.Tick()
	if !c.Now().Equal(stopped) {
		t.Errorf("tick after stop moved time from %v to %v", stopped, c.Now())
	}
	if c.IsRunning() {
		t.Error("clock restarted after stopping")
	}
}

func TestInRangeIsInclusive(t *testing.T) {
	start := mustParse(t, "2024-01-13T08:00:00")
	end := mustParse(t, "2024-01-13T18:00:00")
	c := NewClock(testLogger(), start, end, 1, 1.0)

	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start boundary", start, true},
		{"end boundary", end, true},
		{"inside", start.Add(time.Hour), true},
		{"before", start.Add(-time.Second), false},
		{"after", end.Add(time.Second), false},
	}
	for _, tc := range cases {
		if got := c.InRange(tc.t); got != tc.want {
			t.Errorf("%s: InRange(%v) = %v, want %v", tc.name, tc.t, got, tc.want)
		}
	}
}

func TestProgressClamped(t *testing.T) {
	start := mustParse(t, "2024-01-13T08:00:00")
	end := mustParse(t, "2024-01-13T08:00:10")
	c := NewClock(testLogger(), start, end, 5, 1.0)

	if p := c.Progress(); p != 0.0 {
		t.Errorf("expected progress 0.0 at start, got %f", p)
	}

	c.Tick()
	if p := c.Progress(); p != 0.5 {
		t.Errorf("expected progress 0.5, got %f", p)
	}

	c.Tick()
	c.Tick()
	if p := c.Progress(); p != 1.0 {
		t.Errorf("expected progress clamped at 1.0, got %f", p)
	}
}
