package spectrum

import (
	"math/cmplx"

	"github.com/r9y9/gossp/stft"
)

// Spectrogram returns one-sided STFT magnitudes of signal: one row of
// frameLen/2+1 bins per hop. Signals shorter than one frame yield no rows.
func Spectrogram(signal []float32, frameLen, hop int) [][]float64 {
	if frameLen <= 0 || hop <= 0 || len(signal) < frameLen {
		return nil
	}

	x := make([]float64, len(signal))
	for i, v := range signal {
		x[i] = float64(v)
	}

	frames := stft.New(hop, frameLen).STFT(x)
	bins := frameLen/2 + 1

	out := make([][]float64, len(frames))
	for i, spec := range frames {
		row := make([]float64, min(bins, len(spec)))
		for k := range row {
			row[k] = cmplx.Abs(spec[k])
		}
		out[i] = row
	}

	return out
}

// MeanCentroid averages the spectral centroid over the rows of a
// spectrogram computed with frames of frameSize samples. Silent rows are
// skipped.
func MeanCentroid(rows [][]float64, frameSize int, sampleRate float64) float64 {
	sum := 0.0
	n := 0
	for _, row := range rows {
		if c := Centroid(row, frameSize, sampleRate); c > 0 {
			sum += c
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
