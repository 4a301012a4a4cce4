package vocoder

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pvoc/dsp/fft"
	"github.com/cwbudde/algo-pvoc/dsp/window"
)

var (
	// ErrInvalidFrameSize is returned for frames too small to derive a hop.
	ErrInvalidFrameSize = errors.New("vocoder: frame size must be a power of two >= 4")
	// ErrInvalidPitchRatio is returned for ratios that are not positive and
	// finite, or that leave the analysis hop below one sample.
	ErrInvalidPitchRatio = errors.New("vocoder: invalid pitch ratio")
	// ErrFrameTooLong is returned when Process receives more than FrameSize samples.
	ErrFrameTooLong = errors.New("vocoder: frame longer than frame size")
)

// Engine is a phase vocoder for one mono stream.
//
// All buffers and both collaborators (transform and window table) are
// allocated in New and owned by the Engine. Do not copy an Engine by value;
// share it by pointer, and do not share one Engine across goroutines.
type Engine struct {
	frameSize    int
	pitchRatio   float64
	analysisHop  int
	synthesisHop int

	transform fft.Transform
	window    *window.Table
	rewrap    bool

	expectedPhase []float32
	lastPhase     []float32
	accumPhase    []float32

	spectrum  []float32
	phase     []float32
	magnitude []float32
	delta     []float32
	output    []float32
	n         int
}

// New creates an Engine for frames of frameSize samples shifting pitch by
// pitchRatio (output pitch / input pitch).
//
// The analysis hop is floor((frameSize/4) / pitchRatio) and the synthesis
// hop is frameSize/4.
func New(frameSize int, pitchRatio float64, opts ...Option) (*Engine, error) {
	if frameSize < 4 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameSize, frameSize)
	}

	if math.IsNaN(pitchRatio) || math.IsInf(pitchRatio, 0) || pitchRatio <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPitchRatio, pitchRatio)
	}

	synthesisHop := frameSize / 4
	analysisHop := AnalysisHop(frameSize, pitchRatio)
	if analysisHop < 1 {
		return nil, fmt.Errorf("%w: %v leaves analysis hop %d for frame size %d",
			ErrInvalidPitchRatio, pitchRatio, analysisHop, frameSize)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	transform, err := fft.New(frameSize, cfg.backend)
	if err != nil {
		if errors.Is(err, fft.ErrInvalidSize) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidFrameSize, frameSize)
		}
		return nil, fmt.Errorf("vocoder: %w", err)
	}

	var winOpts []window.Option
	if cfg.periodic {
		winOpts = append(winOpts, window.WithPeriodic())
	}
	if cfg.normal {
		winOpts = append(winOpts, window.WithNormalised())
	}

	win, err := window.NewTable(cfg.window, frameSize, winOpts...)
	if err != nil {
		return nil, fmt.Errorf("vocoder: %w", err)
	}

	e := &Engine{
		frameSize:    frameSize,
		pitchRatio:   pitchRatio,
		analysisHop:  analysisHop,
		synthesisHop: synthesisHop,
		transform:    transform,
		window:       win,
		rewrap:       cfg.rewrap,

		expectedPhase: make([]float32, frameSize),
		lastPhase:     make([]float32, frameSize),
		accumPhase:    make([]float32, frameSize),

		spectrum:  make([]float32, 2*frameSize),
		phase:     make([]float32, frameSize),
		magnitude: make([]float32, frameSize),
		delta:     make([]float32, frameSize),
		output:    make([]float32, frameSize),
	}

	for i := range e.expectedPhase {
		e.expectedPhase[i] = float32(2 * math.Pi * float64(i) * float64(analysisHop) / float64(frameSize))
	}

	return e, nil
}

// AnalysisHop returns the analysis hop an Engine derives for the given
// frame size and pitch ratio.
func AnalysisHop(frameSize int, pitchRatio float64) int {
	return int(math.Floor(float64(frameSize/4) / pitchRatio))
}

// FrameSize returns the transform length in samples.
func (e *Engine) FrameSize() int { return e.frameSize }

// PitchRatio returns the requested pitch ratio.
func (e *Engine) PitchRatio() float64 { return e.pitchRatio }

// AnalysisHopSize returns the input stride between frames in samples.
func (e *Engine) AnalysisHopSize() int { return e.analysisHop }

// SynthesisHopSize returns the output stride between frames in samples.
func (e *Engine) SynthesisHopSize() int { return e.synthesisHop }

// StretchFactor returns SynthesisHopSize/AnalysisHopSize, the factor applied
// to every phase increment and the pitch ratio actually realised.
func (e *Engine) StretchFactor() float64 {
	return float64(e.synthesisHop) / float64(e.analysisHop)
}

// WindowType returns the window shape applied before and after the transform.
func (e *Engine) WindowType() window.Type { return e.window.Type() }

// Window returns the window table applied before and after the transform.
// Callers must not modify its coefficients.
func (e *Engine) Window() *window.Table { return e.window }

// Output returns the most recently synthesised frame. The slice is a view
// into the Engine and is overwritten by the next Process call.
func (e *Engine) Output() []float32 { return e.output[:e.n] }

// Magnitudes returns the bin magnitudes used for the last reconstruction.
// The slice is overwritten by the next Process call.
func (e *Engine) Magnitudes() []float32 { return e.magnitude[:e.n] }

// LastPhase returns the per-bin phase observed in the previous frame.
func (e *Engine) LastPhase() []float32 { return e.lastPhase }

// AccumulatedPhase returns the per-bin synthesis phase.
func (e *Engine) AccumulatedPhase() []float32 { return e.accumPhase }

// ExpectedPhase returns the per-bin phase advance over one analysis hop for
// a sinusoid at the bin centre frequency. Callers must not modify it.
func (e *Engine) ExpectedPhase() []float32 { return e.expectedPhase }

// Reset clears phase tracking so the next frame starts a new session.
func (e *Engine) Reset() {
	clear(e.lastPhase)
	clear(e.accumPhase)
	clear(e.output)
	e.n = 0
}

// Process analyses frame, shifts its phase trajectory and resynthesises it
// into the output buffer (see Output). len(frame) may be shorter than
// FrameSize; the analysis buffer is zero-padded and only the first
// len(frame) bins and output samples are produced.
func (e *Engine) Process(frame []float32) error {
	n := len(frame)
	if n > e.frameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLong, n, e.frameSize)
	}

	spec := e.spectrum
	clear(spec)
	copy(spec, frame)
	e.window.Apply(spec, n)

	if err := e.transform.Forward(spec); err != nil {
		return fmt.Errorf("vocoder: %w", err)
	}

	phase := e.phase[:n]
	mag := e.magnitude[:n]
	delta := e.delta[:n]

	for i := range n {
		re := float64(spec[2*i])
		im := float64(spec[2*i+1])
		phase[i] = float32(math.Atan2(im, re))
		mag[i] = float32(math.Hypot(re, im))

		delta[i] = phase[i] - e.lastPhase[i]
		e.lastPhase[i] = phase[i]
		delta[i] -= e.expectedPhase[i]
	}

	Unwrap(delta)

	hs := float32(e.synthesisHop)
	ha := float32(e.analysisHop)
	for i := range n {
		acc := e.accumPhase[i] + (delta[i]+e.expectedPhase[i])*hs/ha
		if e.rewrap {
			acc = rewrap(acc)
		}
		e.accumPhase[i] = acc

		p := float64(acc)
		spec[2*i] = mag[i] * float32(math.Cos(p))
		spec[2*i+1] = mag[i] * float32(math.Sin(p))
	}

	if err := e.transform.Inverse(spec); err != nil {
		return fmt.Errorf("vocoder: %w", err)
	}

	e.window.Apply(spec, n)
	copy(e.output, spec[:n])
	e.n = n

	return nil
}
