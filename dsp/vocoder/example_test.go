package vocoder_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pvoc/dsp/vocoder"
)

func ExampleNew() {
	e, err := vocoder.New(1024, 2.0)
	if err != nil {
		panic(err)
	}

	fmt.Println(e.FrameSize(), e.AnalysisHopSize(), e.SynthesisHopSize())
	// Output: 1024 128 256
}

func ExampleEngine_Process() {
	e, err := vocoder.New(512, 1.5)
	if err != nil {
		panic(err)
	}

	frame := make([]float32, 512)
	for i := range frame {
		frame[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/48000))
	}

	if err := e.Process(frame); err != nil {
		panic(err)
	}

	fmt.Printf("%d %d %.4f\n", len(e.Output()), e.AnalysisHopSize(), e.StretchFactor())
	// Output: 512 85 1.5059
}

func ExampleUnwrap() {
	deltas := []float32{0, 3, -3, 3}
	vocoder.Unwrap(deltas)
	fmt.Printf("%.4f %.4f %.4f %.4f\n", deltas[0], deltas[1], deltas[2], deltas[3])
	// Output: 0.0000 3.0000 3.2832 3.0000
}
