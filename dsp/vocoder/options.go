package vocoder

import (
	"github.com/cwbudde/algo-pvoc/dsp/fft"
	"github.com/cwbudde/algo-pvoc/dsp/window"
)

// Option configures an Engine at construction.
type Option func(*config)

type config struct {
	window   window.Type
	backend  fft.Backend
	periodic bool
	normal   bool
	rewrap   bool
}

func defaultConfig() config {
	return config{
		window:  window.TypeHamming,
		backend: fft.BackendAlgoFFT,
		rewrap:  true,
	}
}

// WithWindow selects the analysis/synthesis window shape (default Hamming).
// The table is unnormalised, so at ratio 1 Output holds the frame multiplied
// by the squared window. See [WithNormalisedWindow].
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// WithPeriodicWindow uses the periodic rather than symmetric window form.
func WithPeriodicWindow() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithNormalisedWindow scales the window to a mean of 1, which scales Output
// by 1/mean² of the plain window. Overlap-add that divides by the summed
// squared window is unaffected.
func WithNormalisedWindow() Option {
	return func(c *config) {
		c.normal = true
	}
}

// WithBackend selects the FFT backend (default algo-fft).
func WithBackend(b fft.Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// WithPhaseRewrap controls whether accumulated phase is reduced modulo 2π
// after every frame (default true). Without it the accumulator grows without
// bound and loses float32 precision over long sessions.
func WithPhaseRewrap(enabled bool) Option {
	return func(c *config) {
		c.rewrap = enabled
	}
}
