package level_test

import (
	"fmt"

	"github.com/cwbudde/algo-pvoc/dsp/level"
)

func ExampleMeasure() {
	l := level.Measure([]float32{0.5, -0.5, 0.5, -0.5})
	fmt.Printf("rms=%.1f dBFS peak=%.1f dBFS crossings=%d\n", l.RMSdB(), l.PeakdB(), l.ZeroCrossings)
	// Output: rms=-6.0 dBFS peak=-6.0 dBFS crossings=3
}
