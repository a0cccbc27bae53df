package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-groovebox/dsp/core"
)

func ExampleClock() {
	clock := core.NewClock(48000)
	clock.Advance(24000)

	fmt.Printf("frame=%d now=%.2fs\n", clock.Frame(), clock.Now())

	// Output:
	// frame=24000 now=0.50s
}

func ExampleBus_Interleave() {
	b := core.NewBus(2)
	b.L[0], b.R[0] = 0.5, -0.5
	b.L[1], b.R[1] = 2, -2

	dst := make([]float32, 4)
	n := b.Interleave(dst)
	fmt.Println(n, dst)

	// Output:
	// 2 [0.5 -0.5 1 -1]
}
