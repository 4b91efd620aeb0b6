package sim

import "math"

// MaxFrameDelta caps the time a single frame may feed the scheduler.
const MaxFrameDelta = 0.1

// ClampDelta maps a frame delta into [0, MaxFrameDelta]. NaN becomes 0.
func ClampDelta(d float64) float64 {
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	return math.Min(d, MaxFrameDelta)
}

// Accumulator carries simulated time not yet consumed by a whole step.
type Accumulator struct {
	Leftover float64
}

// Advance adds a frame's delta and calls step once per whole fixedStep,
// at most maxSubSteps times. When the cap is reached the remaining time is
// dropped so a slow machine cannot fall further behind. It returns the
// number of steps taken.
func (a *Accumulator) Advance(frameDelta, fixedStep float64, maxSubSteps int, step func(dt float64)) int {
	if fixedStep <= 0 || maxSubSteps < 1 {
		return 0
	}
	a.Leftover += ClampDelta(frameDelta)

	n := 0
	for a.Leftover >= fixedStep && n < maxSubSteps {
		step(fixedStep)
		a.Leftover -= fixedStep
		n++
	}
	if n == maxSubSteps {
		a.Leftover = 0
	}
	return n
}

func (a *Accumulator) Reset() { a.Leftover = 0 }
