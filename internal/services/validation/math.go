package validation

import "math"

// weights for the 3/2/1 weighted average: current year counts three times,
// prior-1 twice, prior-2 once.
var weightedAverageWeights = []float64{3, 2, 1}

// WeightedAverage recomputes the 3/2/1 weighted average over up to three
// non-zero yearly values ordered newest first. Weights are renormalized when
// fewer than three non-zero years exist: three years divides by 6, two by 5,
// one returns the value itself.
func WeightedAverage(years []float64) float64 {
	var sum, weightSum float64
	used := 0
	for _, value := range years {
		if value == 0 {
			continue
		}
		if used >= len(weightedAverageWeights) {
			break
		}
		weight := weightedAverageWeights[used]
		sum += value * weight
		weightSum += weight
		used++
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

// RelativeDiff returns |actual - expected| / |expected|, or 0 when expected
// is zero and actual agrees, and +Inf when expected is zero but actual is not.
func RelativeDiff(actual, expected float64) float64 {
	if expected == 0 {
		if actual == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(actual-expected) / math.Abs(expected)
}

// WithinTolerance reports whether actual agrees with expected within the
// given relative tolerance.
func WithinTolerance(actual, expected, tolerance float64) bool {
	return RelativeDiff(actual, expected) <= tolerance
}
