// Package bench records tick-to-trade latency samples and summarizes
// them.
package bench

import (
	"math"
	"sort"
)

// Stats summarizes a set of latency samples in nanoseconds.
type Stats struct {
	Samples int     `json:"samples"`
	Min     int64   `json:"min"`
	Max     int64   `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	P50     int64   `json:"p50"`
	P90     int64   `json:"p90"`
	P99     int64   `json:"p99"`
}

// Recorder accumulates latency samples.
type Recorder struct {
	samples []int64
}

// NewRecorder creates a recorder pre-sized for the expected sample
// count.
func NewRecorder(capacity int) *Recorder {
	if capacity < 0 {
		capacity = 0
	}
	return &Recorder{
		samples: make([]int64, 0, capacity),
	}
}

// Record adds one latency sample in nanoseconds.
func (r *Recorder) Record(ns int64) {
	r.samples = append(r.samples, ns)
}

// Len returns the number of recorded samples.
func (r *Recorder) Len() int {
	return len(r.samples)
}

// Stats computes summary statistics over the recorded samples. The
// recorder itself is left untouched. A zero Stats is returned when no
// samples were recorded.
func (r *Recorder) Stats() Stats {
	var s Stats
	if len(r.samples) == 0 {
		return s
	}

	sorted := make([]int64, len(r.samples))
	copy(sorted, r.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	s.Samples = len(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]

	var sum float64
	for _, v := range sorted {
		sum += float64(v)
	}
	s.Mean = sum / float64(len(sorted))

	var variance float64
	for _, v := range sorted {
		d := float64(v) - s.Mean
		variance += d * d
	}
	s.StdDev = math.Sqrt(variance / float64(len(sorted)))

	s.P50 = percentile(sorted, 0.50)
	s.P90 = percentile(sorted, 0.90)
	s.P99 = percentile(sorted, 0.99)
	return s
}

func percentile(sorted []int64, q float64) int64 {
	idx := int(q * float64(len(sorted)-1))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
