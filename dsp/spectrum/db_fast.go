//go:build fastmath

package spectrum

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// ln10 is the natural logarithm of 10.
const ln10 = 2.302585092994045684017991454684

// ToDB converts a linear magnitude to decibels using a fast logarithm.
// Non-positive values map to -Inf.
func ToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * approx.FastLog(v) / ln10
}
