package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
)

var (
	hannCoeffs            = []float64{0.5, -0.5}
	hammingCoeffs         = []float64{0.54, -0.46}
	blackmanCoeffs        = []float64{0.42, -0.5, 0.08}
	blackmanHarris4Coeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
)

var typeNames = map[Type]string{
	TypeRectangular:         "rectangular",
	TypeHann:                "hann",
	TypeHamming:             "hamming",
	TypeBlackman:            "blackman",
	TypeBlackmanHarris4Term: "blackman-harris",
}

// String returns the canonical lower-case name of t.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("window(%d)", int(t))
}

// ParseType resolves a window name as printed by [Type.String].
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Types returns all supported window types in declaration order.
func Types() []Type {
	return []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman, TypeBlackmanHarris4Term}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic   bool
	normalised bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithNormalised scales the coefficients so their mean is 1.
func WithNormalised() Option {
	return func(c *config) {
		c.normalised = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	if cfg.normalised {
		mean := floats.Sum(out) / float64(length)
		if mean > 0 {
			floats.Scale(1/mean, out)
		}
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	coeffs := Generate(t, len(buf), opts...)
	vecmath.MulBlockInPlace(buf, coeffs)
}

// OverlapEnergy folds the squared window onto one hop period: entry i is
// the sum of coeffs[j]^2 over all j ≡ i (mod hop). For a frame that is
// windowed twice and overlap-added every hop samples, this is the gain each
// output sample receives in steady state.
func OverlapEnergy(coeffs []float64, hop int) ([]float64, error) {
	if len(coeffs) == 0 {
		return nil, errEmptyCoeffs
	}
	if hop <= 0 || hop > len(coeffs) {
		return nil, fmt.Errorf("%w: %d", errInvalidHop, hop)
	}

	sq := make([]float64, len(coeffs))
	vecmath.MulBlock(sq, coeffs, coeffs)

	out := make([]float64, hop)
	for start := 0; start < len(sq); start += hop {
		end := min(start+hop, len(sq))
		vecmath.AddBlockInPlace(out[:end-start], sq[start:end])
	}

	return out, nil
}

func evalWindow(t Type, x float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}

	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeBlackmanHarris4Term:
		return cosineFromCoeffs(x, blackmanHarris4Coeffs)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
