package resample

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// libConverter adapts the float64 go-audio-resampling engine to Converter.
type libConverter struct {
	r   resampling.Resampler
	buf []float64
}

func newLibConverter(inRate, outRate float64, q Quality) (*libConverter, error) {
	config := &resampling.Config{
		InputRate:  inRate,
		OutputRate: outRate,
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: libPreset(q)},
	}

	r, err := resampling.New(config)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	return &libConverter{r: r}, nil
}

func libPreset(q Quality) resampling.QualityPreset {
	switch q {
	case QualityFast:
		return resampling.QualityLow
	case QualityBest:
		return resampling.QualityVeryHigh
	default:
		return resampling.QualityHigh
	}
}

func (c *libConverter) Process(in []float32) ([]float32, error) {
	if len(in) == 0 {
		return nil, nil
	}

	if cap(c.buf) < len(in) {
		c.buf = make([]float64, len(in))
	}
	c.buf = c.buf[:len(in)]
	for i, v := range in {
		c.buf[i] = float64(v)
	}

	out, err := c.r.Process(c.buf)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	return narrow(out), nil
}

func (c *libConverter) Flush() ([]float32, error) {
	out, err := c.r.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	return narrow(out), nil
}

func (c *libConverter) Reset() {
	c.r.Reset()
}

func narrow(src []float64) []float32 {
	if len(src) == 0 {
		return nil
	}
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = float32(v)
	}
	return dst
}
