package fountain

import "time"

// Clock measures the wall-clock delta between frames.
type Clock struct {
	last    time.Time
	started bool
}

// Tick records now and returns the seconds elapsed since the previous tick.
// The first tick returns 0, and so does a reading older than the previous one.
func (c *Clock) Tick(now time.Time) float32 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	d := now.Sub(c.last)
	if d < 0 {
		return 0
	}
	c.last = now
	return float32(d.Seconds())
}

// Started reports whether the clock received its first reading.
func (c *Clock) Started() bool {
	return c.started
}

// Reset forgets the previous reading.
func (c *Clock) Reset() {
	c.started = false
	c.last = time.Time{}
}
