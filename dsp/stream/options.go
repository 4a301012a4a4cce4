package stream

import (
	"github.com/cwbudde/algo-pvoc/dsp/fft"
	"github.com/cwbudde/algo-pvoc/dsp/resample"
	"github.com/cwbudde/algo-pvoc/dsp/vocoder"
	"github.com/cwbudde/algo-pvoc/dsp/window"
)

// DefaultSampleRate is the nominal rate assumed when none is configured.
const DefaultSampleRate = 48000

// Option configures a Shifter.
type Option func(*config)

type config struct {
	engine     []vocoder.Option
	correct    bool
	resampler  resample.Backend
	quality    resample.Quality
	sampleRate float64
	gain       float32
}

func defaultConfig() config {
	return config{
		correct:    true,
		resampler:  resample.BackendResampling,
		quality:    resample.QualityBalanced,
		sampleRate: DefaultSampleRate,
		gain:       1,
	}
}

// WithWindow selects the vocoder window shape.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.engine = append(c.engine, vocoder.WithWindow(t))
	}
}

// WithBackend selects the vocoder FFT backend.
func WithBackend(b fft.Backend) Option {
	return func(c *config) {
		c.engine = append(c.engine, vocoder.WithBackend(b))
	}
}

// WithEngineOptions passes options through to the vocoder engine.
func WithEngineOptions(opts ...vocoder.Option) Option {
	return func(c *config) {
		c.engine = append(c.engine, opts...)
	}
}

// WithDurationCorrection toggles resampling of the time-stretched signal
// back to the input duration (default on). Without it the output is longer
// or shorter than the input by the stretch factor and keeps its pitch.
func WithDurationCorrection(enabled bool) Option {
	return func(c *config) {
		c.correct = enabled
	}
}

// WithResampler selects the duration correction converter
// (default resample.BackendResampling).
func WithResampler(b resample.Backend) Option {
	return func(c *config) {
		c.resampler = b
	}
}

// WithResampleQuality selects the duration correction filter quality.
func WithResampleQuality(q resample.Quality) Option {
	return func(c *config) {
		c.quality = q
	}
}

// WithSampleRate sets the nominal stream rate in Hz. Only the resampling
// converter uses it.
func WithSampleRate(hz float64) Option {
	return func(c *config) {
		if hz > 0 {
			c.sampleRate = hz
		}
	}
}

// WithGain scales every emitted sample by g (default 1).
func WithGain(g float32) Option {
	return func(c *config) {
		c.gain = g
	}
}
