package analysis

import (
	"math"
	"sort"
)

type Stats struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P50    float64
	P95    float64
	P99    float64
}

func Describe(data []float64) Stats {
	s := Stats{N: len(data)}
	if s.N == 0 {
		return s
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[s.N-1]

	for _, v := range data {
		s.Mean += v
	}
	s.Mean /= float64(s.N)

	for _, v := range data {
		d := v - s.Mean
		s.StdDev += d * d
	}
	s.StdDev = math.Sqrt(s.StdDev / float64(s.N))

	s.P50 = percentile(sorted, 0.50)
	s.P95 = percentile(sorted, 0.95)
	s.P99 = percentile(sorted, 0.99)
	return s
}

// percentile by nearest rank on sorted data
func percentile(sorted []float64, p float64) float64 {
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}
