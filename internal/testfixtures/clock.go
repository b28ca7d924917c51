package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually driven time source. Services take a now func, so tests
// hand them clock.NowFunc() and steer time instead of sleeping, for example to
// expire an admin session.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock starts a clock at the given instant. A zero start falls back to
// ReferenceTime so fixtures and clocks agree on what "today" is.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now reports the instant the clock currently points at.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc adapts the clock to the now func shape the services expect. A nil
// clock degrades to real time.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set moves the clock to an absolute instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}

// Current reads the clock without advancing it.
func (c *Clock) Current() time.Time {
	return c.Now()
}
