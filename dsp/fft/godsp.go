package fft

import godsp "github.com/mjibson/go-dsp/fft"

// goDSPTransform uses mjibson/go-dsp. Its IFFT is already normalised.
// go-dsp allocates its result on every call.
type goDSPTransform struct {
	size int
	work []complex128
}

func newGoDSPTransform(size int) *goDSPTransform {
	return &goDSPTransform{
		size: size,
		work: make([]complex128, size),
	}
}

func (t *goDSPTransform) Size() int { return t.size }

func (t *goDSPTransform) Forward(buf []float32) error {
	if err := checkBuffer(buf, t.size); err != nil {
		return err
	}

	loadReal128(t.work, buf)
	storeSpectrum128(buf, godsp.FFT(t.work))

	return nil
}

func (t *goDSPTransform) Inverse(buf []float32) error {
	if err := checkBuffer(buf, t.size); err != nil {
		return err
	}

	loadSpectrum128(t.work, buf)
	storeReal128(buf, godsp.IFFT(t.work), 1)

	return nil
}
