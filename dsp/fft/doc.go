// Package fft provides the forward/inverse transform used by the phase
// vocoder engine.
//
// A [Transform] works in place on a float32 buffer of length 2*Size():
// Forward reads Size() real samples from the front of the buffer and
// replaces the buffer with the full complex spectrum, bin i stored as
// buf[2i] (real) and buf[2i+1] (imaginary). Inverse reads that layout,
// applies the normalised inverse transform and leaves the real part of the
// time signal in buf[0:Size()].
//
// Three interchangeable backends are available:
//   - BackendAlgoFFT: algo-fft single-precision plans (default).
//   - BackendGonum: gonum's complex FFT.
//   - BackendGoDSP: mjibson/go-dsp.
package fft
