package vocoder

import "math"

const (
	pi    = float32(math.Pi)
	twoPi = float32(2 * math.Pi)
)

// Unwrap removes 2π discontinuities from a phase sequence in place.
//
// Each step between consecutive raw values is wrapped into (-π, π] and the
// output is the running sum of wrapped steps starting from the first value.
// Only the sequence itself is consulted.
func Unwrap(phases []float32) {
	if len(phases) < 2 {
		return
	}

	prev := phases[0]
	for i := 1; i < len(phases); i++ {
		raw := phases[i]
		phases[i] = phases[i-1] + wrapStep(raw-prev)
		prev = raw
	}
}

func wrapStep(d float32) float32 {
	switch {
	case d > pi:
		return d - twoPi
	case d <= -pi:
		return d + twoPi
	default:
		return d
	}
}

// rewrap reduces an accumulated phase into [-π, π].
func rewrap(p float32) float32 {
	return float32(math.Remainder(float64(p), 2*math.Pi))
}
