package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

type config struct {
	typ     Type
	shaping Shaping
	seed    uint64
	seeded  bool
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithType sets the dither noise density. The default is Triangular.
func WithType(t Type) Option {
	return func(c *config) error {
		if _, ok := typeNames[t]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownType, int(t))
		}
		c.typ = t
		return nil
	}
}

// WithShaping enables error-feedback noise shaping. The default is none.
func WithShaping(s Shaping) Option {
	return func(c *config) error {
		if s < 0 || int(s) >= len(shapings) {
			return fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
		}
		c.shaping = s
		return nil
	}
}

// WithSeed makes the noise sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) error {
		c.seed = seed
		c.seeded = true
		return nil
	}
}

// Quantizer converts one channel of float samples to integers. It keeps
// noise-shaping state, so every channel needs its own Quantizer.
type Quantizer struct {
	bits    int
	typ     Type
	shaping Shaping
	scale   float64
	lo, hi  int
	fb      feedback
	rng     *rand.Rand
}

// New returns a Quantizer for the given bit depth.
func New(bits int, opts ...Option) (*Quantizer, error) {
	if bits < 2 || bits > 32 {
		return nil, fmt.Errorf("%w: %d", ErrBitDepth, bits)
	}

	cfg := config{typ: Triangular}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	seed := cfg.seed
	if !cfg.seeded {
		seed = rand.Uint64()
	}

	full := int64(1) << (bits - 1)
	return &Quantizer{
		bits:    bits,
		typ:     cfg.typ,
		shaping: cfg.shaping,
		scale:   float64(full),
		lo:      int(-full),
		hi:      int(full - 1),
		fb:      newFeedback(cfg.shaping.Coefficients()),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

func (q *Quantizer) BitDepth() int       { return q.bits }
func (q *Quantizer) Type() Type          { return q.typ }
func (q *Quantizer) Shaping() Shaping    { return q.shaping }
func (q *Quantizer) Range() (lo, hi int) { return q.lo, q.hi }

// Quantize maps x (nominally in [-1, 1)) to an integer sample.
func (q *Quantizer) Quantize(x float32) int {
	shaped := q.fb.shape(float64(x) * q.scale)
	v := math.Round(shaped + q.noise())
	out := int(max(float64(q.lo), min(float64(q.hi), v)))
	q.fb.record(float64(out) - shaped)
	return out
}

// QuantizeTo fills dst[i*stride] for every src[i]. It lets callers write one
// channel into an interleaved buffer.
func (q *Quantizer) QuantizeTo(dst []int, src []float32, stride int) {
	for i, v := range src {
		dst[i*stride] = q.Quantize(v)
	}
}

// Reset clears the noise-shaping history.
func (q *Quantizer) Reset() { q.fb.reset() }

func (q *Quantizer) noise() float64 {
	switch q.typ {
	case Rectangular:
		return q.rng.Float64() - 0.5
	case Triangular:
		return q.rng.Float64() - q.rng.Float64()
	default:
		return 0
	}
}
