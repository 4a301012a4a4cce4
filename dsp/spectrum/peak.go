package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pvoc/dsp/fft"
	"github.com/cwbudde/algo-pvoc/dsp/window"
)

var errFrameTooLong = errors.New("spectrum: frame longer than transform size")

// PeakBin returns the index of the largest magnitude in mags[lo:hi].
// The range is clamped to the slice; -1 is returned for an empty range.
func PeakBin(mags []float64, lo, hi int) int {
	lo = max(lo, 0)
	hi = min(hi, len(mags))
	if lo >= hi {
		return -1
	}

	best := lo
	for k := lo + 1; k < hi; k++ {
		if mags[k] > mags[best] {
			best = k
		}
	}
	return best
}

// BinFrequency converts a (possibly fractional) bin index to Hz.
func BinFrequency(bin float64, frameSize int, sampleRate float64) float64 {
	return bin * sampleRate / float64(frameSize)
}

// RefinePeak fits a parabola through the log magnitudes of bins k-1, k and
// k+1 and returns the fractional bin of its vertex. Edge bins and peaks with
// a silent neighbour are returned as is.
func RefinePeak(mags []float64, k int) float64 {
	if k <= 0 || k >= len(mags)-1 {
		return float64(k)
	}
	if mags[k-1] <= 0 || mags[k] <= 0 || mags[k+1] <= 0 {
		return float64(k)
	}

	a, b, c := math.Log(mags[k-1]), math.Log(mags[k]), math.Log(mags[k+1])
	den := a - 2*b + c
	if den == 0 {
		return float64(k)
	}
	return float64(k) + 0.5*(a-c)/den
}

// PeakFrequency estimates the dominant frequency of frame in Hz.
//
// The frame is Hann-windowed, zero-padded to tr.Size(), transformed, and the
// strongest bin above DC is refined by parabolic interpolation.
func PeakFrequency(frame []float32, sampleRate float64, tr fft.Transform) (float64, error) {
	n := tr.Size()
	if len(frame) == 0 {
		return 0, nil
	}
	if len(frame) > n {
		return 0, fmt.Errorf("%w: %d > %d", errFrameTooLong, len(frame), n)
	}

	win, err := window.NewTable(window.TypeHann, len(frame))
	if err != nil {
		return 0, err
	}

	buf := make([]float32, 2*n)
	copy(buf, frame)
	win.Apply(buf, len(frame))

	if err := tr.Forward(buf); err != nil {
		return 0, fmt.Errorf("spectrum: %w", err)
	}

	mags := Magnitudes(buf, n/2+1)
	k := PeakBin(mags, 1, len(mags))
	if k < 0 {
		return 0, nil
	}

	return BinFrequency(RefinePeak(mags, k), n, sampleRate), nil
}
