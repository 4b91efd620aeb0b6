package sim

import "time"

// Clock reports seconds elapsed since its previous call.
type Clock interface {
	Delta() float64
}

type WallClock struct {
	now     func() time.Time
	last    time.Time
	started bool
}

func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

// Delta returns 0 on the first call.
func (c *WallClock) Delta() float64 {
	now := c.now()
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	d := now.Sub(c.last).Seconds()
	c.last = now
	return d
}

// ManualClock returns queued deltas first, then Step forever.
type ManualClock struct {
	Step  float64
	queue []float64
}

func NewManualClock(step float64) *ManualClock {
	return &ManualClock{Step: step}
}

func (c *ManualClock) Push(deltas ...float64) {
	c.queue = append(c.queue, deltas...)
}

func (c *ManualClock) Delta() float64 {
	if len(c.queue) > 0 {
		d := c.queue[0]
		c.queue = c.queue[1:]
		return d
	}
	return c.Step
}
