// Package spectrum provides inspection helpers for interleaved float32
// spectra produced by package fft: magnitudes, peak picking with parabolic
// refinement, spectral centroid and decibel conversion.
//
// These helpers are used to verify and report on phase vocoder output; they
// are not part of the per-frame processing path.
package spectrum
