package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic float32 sine wave.
// The phase is advanced in float64 so long signals stay exact.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// BinSine generates a sine wave whose frequency sits exactly on the center of
// FFT bin `bin` for a transform of length frameSize.
func BinSine(bin, frameSize int, amplitude float64, length int) []float32 {
	return DeterministicSine(float64(bin), float64(frameSize), amplitude, length)
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float32 {
	out := make([]float32, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float32, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Frames slices signal into frames of frameSize samples taken every hop
// samples. Frames that would run past the end of signal are dropped.
func Frames(signal []float32, frameSize, hop int) [][]float32 {
	if frameSize <= 0 || hop <= 0 {
		return nil
	}
	var frames [][]float32
	for pos := 0; pos+frameSize <= len(signal); pos += hop {
		frames = append(frames, signal[pos:pos+frameSize])
	}
	return frames
}
