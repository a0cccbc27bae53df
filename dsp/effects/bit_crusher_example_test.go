package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-groovebox/dsp/effects"
)

func ExampleBitCrusher_Process() {
	bc, err := effects.NewBitCrusher(48000,
		effects.WithBitCrusherBitDepth(2),
		effects.WithBitCrusherRate(1),
		effects.WithBitCrusherMix(1),
	)
	if err != nil {
		fmt.Println("error")
		return
	}

	l := []float64{0.1, 0.3, 0.6, 0.9}
	r := []float64{0.1, 0.3, 0.6, 0.9}
	bc.Process(l, r)

	fmt.Println(l)
	// Output:
	// [0 0.25 0.5 1]
}
