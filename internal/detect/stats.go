package detect

import (
	"math"
	"sort"
)

// median returns the middle value of the samples (mean of the two middle
// values for even counts). The input is not modified.
func median(samples []float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mean calculates the arithmetic mean of the samples.
func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// stddev calculates the population standard deviation of the samples.
// Channel quality gating compares whole-trace spread against a threshold,
// so the population formula is used rather than the sample estimator.
func stddev(samples []float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	m := mean(samples)
	sumSq := 0.0
	for _, s := range samples {
		diff := s - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n))
}
