package window

import "github.com/tphakala/simd/f32"

// Table is a fixed float32 window of a given length.
//
// The coefficients are computed once in [NewTable] and never modified, so a
// Table may be read from several goroutines. Apply mutates only the buffer it
// is given.
type Table struct {
	typ    Type
	coeffs []float32
}

// NewTable precomputes a float32 window table of the given length.
func NewTable(t Type, length int, opts ...Option) (*Table, error) {
	if err := validateLength(length); err != nil {
		return nil, err
	}

	src := Generate(t, length, opts...)
	coeffs := make([]float32, length)
	for i, v := range src {
		coeffs[i] = float32(v)
	}

	return &Table{typ: t, coeffs: coeffs}, nil
}

// Type returns the window shape of the table.
func (w *Table) Type() Type { return w.typ }

// Len returns the table length.
func (w *Table) Len() int { return len(w.coeffs) }

// Coefficients returns the table. Callers must not modify it.
func (w *Table) Coefficients() []float32 { return w.coeffs }

// Apply multiplies buf[0:n] in place by the first n table entries.
// n is clamped to the shorter of len(buf) and the table length.
func (w *Table) Apply(buf []float32, n int) {
	n = min(n, len(buf), len(w.coeffs))
	if n <= 0 {
		return
	}

	coeffs := w.coeffs[:n]
	buf = buf[:n]
	for i, c := range coeffs {
		buf[i] *= c
	}
}

// Energy returns the sum of squared coefficients.
func (w *Table) Energy() float32 {
	return f32.DotProductUnsafe(w.coeffs, w.coeffs)
}

// Sum returns the sum of coefficients (the DC gain of the window).
func (w *Table) Sum() float32 {
	return f32.Sum(w.coeffs)
}

// Squared returns a new slice holding the squared coefficients.
func (w *Table) Squared() []float32 {
	out := make([]float32, len(w.coeffs))
	for i, c := range w.coeffs {
		out[i] = c * c
	}
	return out
}
