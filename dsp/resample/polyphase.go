package resample

import (
	"math"

	"github.com/tphakala/simd/f32"
)

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

// Option configures a Polyphase converter.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides normalized cutoff scaling in range (0, 1].
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.cutoffScale = v
		}
	}
}

func (c config) finalized() config {
	p := QualityProfile(c.quality)
	if c.tapsPerPhase <= 0 {
		c.tapsPerPhase = p.TapsPerPhase
	}
	if c.cutoffScale <= 0 || c.cutoffScale > 1 {
		c.cutoffScale = p.CutoffScale
	}
	if c.kaiserBeta <= 0 {
		c.kaiserBeta = p.KaiserBeta
	}
	return c
}

// Polyphase performs rational rate conversion with a windowed-sinc
// polyphase FIR. Output is aligned with input: the filter group delay is
// trimmed from the head, and Flush emits the tail so that a whole stream of
// n input samples yields round(n*up/down) output samples.
type Polyphase struct {
	up   int
	down int

	quality Quality
	taps    int
	// phases[p] holds branch p in reverse order, so one output sample is a
	// dot product against a contiguous window of history.
	phases [][]float32

	phase      int
	inputIndex int
	totalIn    int
	emitted    int
	skip       int
	delay      int

	work []float32
}

// NewRational creates a converter for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Polyphase, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := config{quality: QualityBalanced}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg = cfg.finalized()

	proto, err := designPrototype(up, down, cfg)
	if err != nil {
		return nil, err
	}

	taps := cfg.tapsPerPhase
	phases := make([][]float32, up)
	for p := range up {
		branch := make([]float32, taps)
		for k := range taps {
			branch[taps-1-k] = float32(proto[p+k*up])
		}
		phases[p] = branch
	}

	delay := int(math.Round(0.5 * float64(len(proto)-1) / float64(down)))

	r := &Polyphase{
		up:      up,
		down:    down,
		quality: cfg.quality,
		taps:    taps,
		phases:  phases,
		delay:   delay,
	}
	r.Reset()

	return r, nil
}

// Reset clears internal filter state.
func (r *Polyphase) Reset() {
	r.phase = 0
	r.inputIndex = 0
	r.totalIn = 0
	r.emitted = 0
	r.skip = r.delay
	r.work = append(r.work[:0], make([]float32, r.taps-1)...)
}

// Process converts an input block and keeps filter history for streaming.
func (r *Polyphase) Process(input []float32) []float32 {
	if len(input) == 0 {
		return nil
	}

	out := make([]float32, 0, r.PredictOutputLen(len(input)))
	out = r.run(input, out)

	return r.trimHead(out)
}

// Flush feeds silence through the filter until the output covers the whole
// input duration and returns the remaining samples.
func (r *Polyphase) Flush() []float32 {
	want := int(math.Round(float64(r.totalIn)*float64(r.up)/float64(r.down))) - r.emitted
	if want <= 0 {
		return nil
	}

	pad := make([]float32, r.taps)
	var out []float32
	for len(out) < want {
		out = append(out, r.trimHead(r.run(pad, nil))...)
	}

	return out[:want]
}

func (r *Polyphase) run(input, out []float32) []float32 {
	hist := r.taps - 1
	r.work = append(r.work, input...)

	base := r.totalIn - hist
	lastAvail := r.totalIn + len(input) - 1

	for r.inputIndex <= lastAvail {
		start := r.inputIndex - hist - base
		y := f32.DotProductUnsafe(r.phases[r.phase], r.work[start:start+r.taps])
		out = append(out, y)

		r.phase += r.down
		r.inputIndex += r.phase / r.up
		r.phase %= r.up
	}

	r.totalIn += len(input)

	n := copy(r.work, r.work[len(r.work)-hist:])
	r.work = r.work[:n]

	return out
}

func (r *Polyphase) trimHead(out []float32) []float32 {
	if r.skip > 0 {
		n := min(r.skip, len(out))
		r.skip -= n
		out = out[n:]
	}
	r.emitted += len(out)
	return out
}

// PredictOutputLen returns how many filter outputs the next Process call of
// inputLen samples computes, before head trimming.
func (r *Polyphase) PredictOutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	lastAvail := r.totalIn + inputLen - 1
	i := r.inputIndex
	phase := r.phase

	count := 0
	for i <= lastAvail {
		count++
		phase += r.down
		i += phase / r.up
		phase %= r.up
	}

	return count
}

// Ratio returns reduced up/down conversion factors.
func (r *Polyphase) Ratio() (up, down int) {
	return r.up, r.down
}

// Quality returns the configured quality mode.
func (r *Polyphase) Quality() Quality {
	return r.quality
}

// TapsPerPhase returns taps in each polyphase branch.
func (r *Polyphase) TapsPerPhase() int {
	return r.taps
}

// Latency returns the filter group delay in output samples. It is trimmed
// internally and reported for information only.
func (r *Polyphase) Latency() int {
	return r.delay
}
