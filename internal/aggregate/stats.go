package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats are the kW statistics of one bucket; NaN marks an undefined value.
type Stats struct {
	Mean   float64
	Median float64
	Max    float64
	Min    float64
}

// Describe computes mean, median, max and min of values, ignoring NaN.
// When no value is left every statistic is NaN.
func Describe(values []float64) Stats {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		nan := math.NaN()
		return Stats{Mean: nan, Median: nan, Max: nan, Min: nan}
	}

	mean := stat.Mean(valid, nil)
	sort.Float64s(valid)
	return Stats{
		Mean:   mean,
		Median: median(valid),
		Max:    floats.Max(valid),
		Min:    floats.Min(valid),
	}
}

// median expects sorted, non-empty input. Even counts average the two
// middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
