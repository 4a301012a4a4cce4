package dither_test

import (
	"fmt"

	"github.com/cwbudde/algo-pvoc/dsp/dither"
)

func ExampleQuantizer() {
	q, err := dither.New(16, dither.WithType(dither.None))
	if err != nil {
		panic(err)
	}

	fmt.Println(q.Quantize(0.5), q.Quantize(-1), q.Quantize(1))
	// Output: 16384 -32768 32767
}
