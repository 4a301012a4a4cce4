//go:build !fastmath

package spectrum

import "math"

// ToDB converts a linear magnitude to decibels. Non-positive values map to -Inf.
func ToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
