package metrics

type MeanSubSteps struct {
	total   int
	samples int
}

func NewMeanSubSteps() *MeanSubSteps { return &MeanSubSteps{} }

func (m *MeanSubSteps) Name() string { return "mean_substeps" }

func (m *MeanSubSteps) Observe(s FrameStats) {
	m.total += s.SubSteps
	m.samples++
}

func (m *MeanSubSteps) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.total) / float64(m.samples)
}

func (m *MeanSubSteps) Reset() { *m = MeanSubSteps{} }

// DriftResets counts frames that hit the substep cap.
type DriftResets struct {
	count int
}

func NewDriftResets() *DriftResets { return &DriftResets{} }

func (d *DriftResets) Name() string { return "drift_resets" }

func (d *DriftResets) Observe(s FrameStats) {
	if s.DriftReset {
		d.count++
	}
}

func (d *DriftResets) Value() float64 { return float64(d.count) }
func (d *DriftResets) Reset()         { d.count = 0 }

type PeakLive struct {
	peak int
}

func NewPeakLive() *PeakLive { return &PeakLive{} }

func (p *PeakLive) Name() string { return "peak_live" }

func (p *PeakLive) Observe(s FrameStats) {
	if s.Live > p.peak {
		p.peak = s.Live
	}
}

func (p *PeakLive) Value() float64 { return float64(p.peak) }
func (p *PeakLive) Reset()         { p.peak = 0 }

// TotalEvicted reports the running eviction count of the latest frame.
type TotalEvicted struct {
	last int
}

func NewTotalEvicted() *TotalEvicted { return &TotalEvicted{} }

func (e *TotalEvicted) Name() string         { return "evicted" }
func (e *TotalEvicted) Observe(s FrameStats) { e.last = s.Evicted }
func (e *TotalEvicted) Value() float64       { return float64(e.last) }
func (e *TotalEvicted) Reset()               { e.last = 0 }

type MeanKineticEnergy struct {
	total   float64
	samples int
}

func NewMeanKineticEnergy() *MeanKineticEnergy { return &MeanKineticEnergy{} }

func (k *MeanKineticEnergy) Name() string { return "mean_kinetic_energy" }

func (k *MeanKineticEnergy) Observe(s FrameStats) {
	k.total += s.KineticEnergy
	k.samples++
}

func (k *MeanKineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *MeanKineticEnergy) Reset() { *k = MeanKineticEnergy{} }

// Standard returns a fresh set of the reducers used by the CLI.
func Standard() []Metric {
	return []Metric{
		NewMeanSubSteps(),
		NewDriftResets(),
		NewPeakLive(),
		NewTotalEvicted(),
		NewMeanKineticEnergy(),
	}
}
