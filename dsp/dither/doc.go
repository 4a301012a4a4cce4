// Package dither quantises float samples to integer PCM with optional dither
// noise and error-feedback noise shaping.
//
// The integer scale matches the audiofile encoder: a sample x maps to
// round(x * 2^(bits-1)), clipped to [-2^(bits-1), 2^(bits-1)-1].
package dither
