package revenue

import "math"

// Gini computes the Gini coefficient of an allocation: 0 for perfect
// equality, approaching 1 as one contributor takes everything. Empty and
// single-element inputs, and zero-mean inputs, yield 0.
func Gini(values []float64) float64 {
	n := len(values)
	if n <= 1 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	if mean == 0 {
		return 0
	}

	var totalDiff float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			totalDiff += math.Abs(values[i] - values[j])
		}
	}
	return totalDiff / (2 * float64(n*n) * mean)
}
