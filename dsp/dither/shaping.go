package dither

import (
	"fmt"
	"strings"
)

// Shaping selects a fixed error-feedback filter. Higher orders push more of
// the requantisation noise above the ear's most sensitive band.
type Shaping int

const (
	ShapeNone Shaping = iota
	// ShapeEFB is plain first-order error feedback.
	ShapeEFB
	// Shape2SC is a simple second-order highpass.
	Shape2SC
	// Shape3FC is a third-order F-weighted curve.
	Shape3FC
)

var shapings = []struct {
	name   string
	coeffs []float64
}{
	ShapeNone: {"none", nil},
	ShapeEFB:  {"efb", []float64{1}},
	Shape2SC:  {"2sc", []float64{1, -0.5}},
	Shape3FC:  {"3fc", []float64{1.623, -0.982, 0.109}},
}

func (s Shaping) String() string {
	if s >= 0 && int(s) < len(shapings) {
		return shapings[s].name
	}
	return fmt.Sprintf("shaping(%d)", int(s))
}

// Coefficients returns a copy of the feedback coefficients, nil for ShapeNone.
func (s Shaping) Coefficients() []float64 {
	if s < 0 || int(s) >= len(shapings) || len(shapings[s].coeffs) == 0 {
		return nil
	}
	return append([]float64(nil), shapings[s].coeffs...)
}

// ParseShaping resolves a name printed by [Shaping.String].
func ParseShaping(name string) (Shaping, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, s := range shapings {
		if s.name == name {
			return Shaping(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// feedback subtracts a weighted history of past quantisation errors.
// history[0] holds the most recent error.
type feedback struct {
	coeffs  []float64
	history []float64
}

func newFeedback(coeffs []float64) feedback {
	return feedback{coeffs: coeffs, history: make([]float64, len(coeffs))}
}

func (f *feedback) shape(x float64) float64 {
	for i, c := range f.coeffs {
		x -= c * f.history[i]
	}
	return x
}

func (f *feedback) record(err float64) {
	if len(f.history) == 0 {
		return
	}
	copy(f.history[1:], f.history)
	f.history[0] = err
}

func (f *feedback) reset() { clear(f.history) }
