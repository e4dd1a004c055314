package stats

import "math"

// Summarize computes mean, population standard deviation, max and min of the
// per-trial best values produced by a benchmark.
func Summarize(values []float64) (mean, std, max, min float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sum := 0.0
	max = values[0]
	min = values[0]
	for _, v := range values {
		sum += v
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	mean = sum / float64(len(values))
	acc := 0.0
	for _, v := range values {
		diff := v - mean
		acc += diff * diff
	}
	std = math.Sqrt(acc / float64(len(values)))
	return mean, std, max, min
}
