package testutil

import (
	"sync"
	"time"
)

// Epoch is the starting instant of every ManualClock.
var Epoch = time.Date(2024, time.May, 22, 12, 0, 0, 0, time.UTC)

// ManualClock is a wall clock that only moves when told to.
//
// It satisfies memorize.Clock, so bonus-time tests can step through a
// face-up window without sleeping.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock reading Epoch.
func NewManualClock() *ManualClock {
	return &ManualClock{now: Epoch}
}

// Now returns the current reading.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative durations are ignored so
// the clock never runs backwards.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.now = c.now.Add(d)
	}
}

// Set jumps the clock to t if t is not before the current reading.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !t.Before(c.now) {
		c.now = t
	}
}

// Reset returns the clock to Epoch.
func (c *ManualClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = Epoch
}
