package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-pvoc/dsp/buffer"
)

func ExampleRing() {
	r := buffer.NewRing(4)
	r.Write([]float32{1, 2, 3, 4, 5, 6})

	frame := make([]float32, 4)
	r.Peek(frame)
	r.Discard(2)

	fmt.Println(frame, r.Len())

	// Output:
	// [1 2 3 4] 4
}
