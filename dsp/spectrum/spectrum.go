package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for de-interleaving.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitudes returns |X[k]| for the first bins entries of an interleaved
// spectrum (bin k at interleaved[2k], interleaved[2k+1]).
//
// bins is clamped to len(interleaved)/2. Scratch buffers are pooled, so in
// steady state this allocates only the output slice.
func Magnitudes(interleaved []float32, bins int) []float64 {
	bins = min(bins, len(interleaved)/2)
	if bins <= 0 {
		return nil
	}

	out := make([]float64, bins)
	re, im, buf := getScratch(bins)

	for k := range bins {
		re[k] = float64(interleaved[2*k])
		im[k] = float64(interleaved[2*k+1])
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)

	return out
}

// Centroid returns the magnitude-weighted mean frequency in Hz of a
// one-sided magnitude spectrum from a transform of frameSize samples.
// It returns 0 for an all-zero spectrum.
func Centroid(mags []float64, frameSize int, sampleRate float64) float64 {
	sum := 0.0
	weighted := 0.0
	for k, m := range mags {
		sum += m
		weighted += m * BinFrequency(float64(k), frameSize, sampleRate)
	}
	if sum == 0 {
		return 0
	}
	return weighted / sum
}
