// Package timeutil provides a testable abstraction over wall-clock reads.
package timeutil

import (
	"sync"
	"time"
)

// Clock is the time source for run timestamps and phase timings.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the duration since t.
	Since(t time.Time) time.Duration
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// Since returns the time elapsed since t.
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// MockClock is a manually driven clock for tests.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock returns a clock frozen at t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mock time.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Since returns the mock duration since t.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Advance moves the clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Stopwatch times consecutive run phases against a Clock.
type Stopwatch struct {
	clock Clock
	start time.Time
	laps  map[string]time.Duration
	order []string
}

// NewStopwatch starts timing immediately.
func NewStopwatch(c Clock) *Stopwatch {
	return &Stopwatch{clock: c, start: c.Now(), laps: make(map[string]time.Duration)}
}

// Lap records the time since the previous lap under name and restarts.
func (s *Stopwatch) Lap(name string) time.Duration {
	d := s.clock.Since(s.start)
	if _, seen := s.laps[name]; !seen {
		s.order = append(s.order, name)
	}
	s.laps[name] += d
	s.start = s.clock.Now()
	return d
}

// Get returns the accumulated duration for name.
func (s *Stopwatch) Get(name string) time.Duration { return s.laps[name] }

// Names returns lap names in first-recorded order.
func (s *Stopwatch) Names() []string { return s.order }
