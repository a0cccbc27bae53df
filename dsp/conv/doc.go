// Package conv provides streaming FFT convolution for long impulse responses.
//
// [Partitioned] splits the kernel into equal blocks and convolves each new
// input block against all of them in the frequency domain (uniformly
// partitioned overlap-save). Latency is one block.
//
//	c, err := conv.NewPartitioned(impulse, 512)
//	for i := range buf {
//		buf[i] = c.ProcessSample(buf[i])
//	}
package conv
