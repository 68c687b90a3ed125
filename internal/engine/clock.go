package engine

import (
	"sync/atomic"
	"time"
)

// Clock is the logical clock that stamps every applied intent.
//
// Each session owns one clock. Seq numbers are strictly increasing and
// start at 1, so replaying the same intents yields the same seqs.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though a Session only ever calls it from its owner.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// WallClock supplies wall-clock readings. Only bonus-time accounting and
// record timestamps read it; ordering always uses Clock.
type WallClock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// fixedClock holds one wall-clock reading until it is moved. Sessions use it
// to give the game a single instant per intent, and replay uses it to feed
// recorded instants back.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) set(unixNano int64) { c.now = time.Unix(0, unixNano).UTC() }
