package app

import (
	"time"
)

// Clock abstracts wall time so the loop can be driven by tests.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time                  { return time.Now() }
func (SystemClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (SystemClock) Sleep(d time.Duration)           { time.Sleep(d) }

// Stepper is what the loop drives: several fixed updates, then one render.
type Stepper interface {
	Update(t time.Time, dt time.Duration) error
	Render(t time.Time) error
}

// DefaultMaxUpdates bounds the catch-up after a slow frame.
const DefaultMaxUpdates = 4

// Loop runs updates at a fixed rate and renders once per step. A fast
// machine sleeps off the rest of the step; a slow one runs extra updates,
// at most MaxUpdates, and then drops the remaining lag.
type Loop struct {
	dt         time.Duration
	lag        time.Duration
	MaxUpdates int
}

func NewLoop(dt time.Duration) *Loop {
	return &Loop{dt: dt, MaxUpdates: DefaultMaxUpdates}
}

func (l *Loop) Step(s Stepper, clock Clock) error {
	t0 := clock.Now()

	updates := int(l.lag/l.dt) + 1
	for i := 0; i < min(updates, l.MaxUpdates); i++ {
		if err := s.Update(t0, l.dt); err != nil {
			return err
		}
	}
	if err := s.Render(t0); err != nil {
		return err
	}

	l.lag += clock.Since(t0)
	if l.lag < l.dt {
		clock.Sleep(l.dt - l.lag)
	}
	l.lag = max(0, l.lag-l.dt*time.Duration(updates))
	return nil
}

func (l *Loop) Lag() time.Duration {
	return l.lag
}

func (l *Loop) Interval() time.Duration {
	return l.dt
}
