package metrics

import (
	"fmt"
	"sort"
	"strings"
)

// Recorder keeps every frame it observes and feeds its metrics.
type Recorder struct {
	frames  []FrameStats
	metrics []Metric
	limit   int
}

func NewRecorder(ms ...Metric) *Recorder {
	return &Recorder{metrics: ms}
}

// NewRingRecorder keeps only the last limit frames. Metrics still see
// every frame.
func NewRingRecorder(limit int, ms ...Metric) *Recorder {
	return &Recorder{metrics: ms, limit: limit}
}

func (r *Recorder) OnFrame(s FrameStats) {
	r.frames = append(r.frames, s)
	if r.limit > 0 && len(r.frames) > r.limit {
		r.frames = r.frames[len(r.frames)-r.limit:]
	}
	for _, m := range r.metrics {
		m.Observe(s)
	}
}

func (r *Recorder) Frames() []FrameStats { return r.frames }

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() {
	r.frames = nil
	for _, m := range r.metrics {
		m.Reset()
	}
}

// Series extracts one float per recorded frame.
func (r *Recorder) Series(field func(FrameStats) float64) []float64 {
	out := make([]float64, len(r.frames))
	for i, f := range r.frames {
		out[i] = field(f)
	}
	return out
}

func (r *Recorder) Summary() Summary {
	s := Summary{Frames: len(r.frames), Values: make(map[string]float64, len(r.metrics))}
	for _, m := range r.metrics {
		s.Values[m.Name()] = m.Value()
	}
	return s
}

type Summary struct {
	Frames int
	Values map[string]float64
}

// Map returns the metric values keyed by name, frames included.
func (s Summary) Map() map[string]float64 {
	out := make(map[string]float64, len(s.Values)+1)
	for k, v := range s.Values {
		out[k] = v
	}
	out["frames"] = float64(s.Frames)
	return out
}

func (s Summary) String() string {
	names := make([]string, 0, len(s.Values))
	for k := range s.Values {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "frames=%d", s.Frames)
	for _, k := range names {
		fmt.Fprintf(&b, " %s=%.4g", k, s.Values[k])
	}
	return b.String()
}

// Fields used by the CLI and storage when plotting series.
var Fields = map[string]func(FrameStats) float64{
	"delta":    func(f FrameStats) float64 { return f.Delta },
	"substeps": func(f FrameStats) float64 { return float64(f.SubSteps) },
	"leftover": func(f FrameStats) float64 { return f.Leftover },
	"live":     func(f FrameStats) float64 { return float64(f.Live) },
	"evicted":  func(f FrameStats) float64 { return float64(f.Evicted) },
	"energy":   func(f FrameStats) float64 { return f.KineticEnergy },
}

func FieldNames() []string {
	names := make([]string, 0, len(Fields))
	for k := range Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
