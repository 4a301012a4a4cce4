package fft

import "gonum.org/v1/gonum/dsp/fourier"

// gonumTransform uses gonum's complex FFT. gonum does not normalise the
// inverse, so Inverse scales by 1/size.
type gonumTransform struct {
	size  int
	fft   *fourier.CmplxFFT
	scale float64
	work  []complex128
	out   []complex128
}

func newGonumTransform(size int) *gonumTransform {
	return &gonumTransform{
		size:  size,
		fft:   fourier.NewCmplxFFT(size),
		scale: 1.0 / float64(size),
		work:  make([]complex128, size),
		out:   make([]complex128, size),
	}
}

func (t *gonumTransform) Size() int { return t.size }

func (t *gonumTransform) Forward(buf []float32) error {
	if err := checkBuffer(buf, t.size); err != nil {
		return err
	}

	loadReal128(t.work, buf)
	t.out = t.fft.Coefficients(t.out, t.work)
	storeSpectrum128(buf, t.out)

	return nil
}

func (t *gonumTransform) Inverse(buf []float32) error {
	if err := checkBuffer(buf, t.size); err != nil {
		return err
	}

	loadSpectrum128(t.work, buf)
	t.out = t.fft.Sequence(t.out, t.work)
	storeReal128(buf, t.out, t.scale)

	return nil
}
