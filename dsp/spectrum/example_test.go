package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-pvoc/dsp/spectrum"
)

func ExampleMagnitudes() {
	interleaved := []float32{3, 4, 0, 1}
	fmt.Println(spectrum.Magnitudes(interleaved, 2))
	// Output: [5 1]
}

func ExamplePeakBin() {
	mags := []float64{0.1, 0.4, 2.5, 0.3}
	fmt.Println(spectrum.PeakBin(mags, 1, len(mags)))
	// Output: 2
}
