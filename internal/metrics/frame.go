package metrics

type FrameStats struct {
	Frame    uint64
	Time     float64
	Delta    float64
	SubSteps int
	Leftover float64
	// DriftReset is set when the substep cap was hit and leftover time
	// was discarded.
	DriftReset    bool
	Live          int
	Spawned       int
	Evicted       int
	KineticEnergy float64
}

type FrameObserver interface {
	OnFrame(s FrameStats)
}

// ObserverFunc adapts a function to FrameObserver.
type ObserverFunc func(FrameStats)

func (f ObserverFunc) OnFrame(s FrameStats) { f(s) }

type Metric interface {
	Name() string
	Observe(s FrameStats)
	Value() float64
	Reset()
}
