package fft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// algoTransform runs single-precision algo-fft plans.
type algoTransform struct {
	size int
	plan *algofft.Plan[complex64]
	work []complex64
}

func newAlgoTransform(size int) (*algoTransform, error) {
	plan, err := algofft.NewPlanT[complex64](size)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create FFT plan: %w", err)
	}

	return &algoTransform{
		size: size,
		plan: plan,
		work: make([]complex64, size),
	}, nil
}

func (t *algoTransform) Size() int { return t.size }

func (t *algoTransform) Forward(buf []float32) error {
	if err := checkBuffer(buf, t.size); err != nil {
		return err
	}

	for i := range t.work {
		t.work[i] = complex(buf[i], 0)
	}

	if err := t.plan.Forward(t.work, t.work); err != nil {
		return fmt.Errorf("fft: forward FFT failed: %w", err)
	}

	for i, c := range t.work {
		buf[2*i] = real(c)
		buf[2*i+1] = imag(c)
	}

	return nil
}

func (t *algoTransform) Inverse(buf []float32) error {
	if err := checkBuffer(buf, t.size); err != nil {
		return err
	}

	for i := range t.work {
		t.work[i] = complex(buf[2*i], buf[2*i+1])
	}

	if err := t.plan.Inverse(t.work, t.work); err != nil {
		return fmt.Errorf("fft: inverse FFT failed: %w", err)
	}

	for i, c := range t.work {
		buf[i] = real(c)
	}
	clear(buf[t.size : 2*t.size])

	return nil
}
