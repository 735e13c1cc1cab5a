// Package rating computes the derived rating of an expert.
package rating

import "math"

// Average returns the mean of ratings rounded to one decimal, 0 when empty.
// Midpoints round half to even. The mean is scaled before dividing so the
// only rounding is the final one.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	scaled := float64(sum*10) / float64(len(ratings))
	return math.RoundToEven(scaled) / 10
}
