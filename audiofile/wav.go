package audiofile

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-pvoc/dsp/dither"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

// DecodeWAV reads an integer PCM WAV stream.
func DecodeWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode wav: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels < 1 || bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d channels, %d bits", ErrInvalidWAV, channels, bitDepth)
	}

	frames := len(buf.Data) / channels
	clip := &Clip{
		SampleRate: int(dec.SampleRate),
		BitDepth:   bitDepth,
		Channels:   make([][]float32, channels),
	}

	// 8-bit WAV is unsigned with a 128 offset.
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}
	inv := 1 / fullScale(bitDepth)

	for ch := range channels {
		data := make([]float32, frames)
		for i := range frames {
			data[i] = float32(buf.Data[i*channels+ch]-offset) * inv
		}
		clip.Channels[ch] = data
	}

	return clip, nil
}

// EncodeOption configures WAV encoding.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	dither  bool
	typ     dither.Type
	shaping dither.Shaping
	seed    uint64
	seeded  bool
}

// WithDither requantises through a per-channel [dither.Quantizer] instead of
// plain rounding.
func WithDither(t dither.Type, s dither.Shaping) EncodeOption {
	return func(c *encodeConfig) {
		c.dither = true
		c.typ = t
		c.shaping = s
	}
}

// WithDitherSeed fixes the dither noise. Channel ch uses seed+ch.
func WithDitherSeed(seed uint64) EncodeOption {
	return func(c *encodeConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// EncodeWAV writes clip as integer PCM with bitDepth 16, 24 or 32. Samples
// are clipped to the representable range.
func EncodeWAV(w io.WriteSeeker, clip *Clip, bitDepth int, opts ...EncodeOption) error {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}
	if clip.NumChannels() == 0 {
		return ErrEmptyClip
	}

	for ch, data := range clip.Channels {
		if len(data) != clip.Len() {
			return fmt.Errorf("audiofile: channel %d has %d samples, want %d", ch, len(data), clip.Len())
		}
	}

	var cfg encodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	numChans := clip.NumChannels()
	data, err := quantize(clip, bitDepth, cfg)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(w, clip.SampleRate, bitDepth, numChans, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChans, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: encode wav: %w", err)
	}

	return nil
}

func quantize(clip *Clip, bitDepth int, cfg encodeConfig) ([]int, error) {
	numChans := clip.NumChannels()

	if !cfg.dither {
		scale := float64(fullScale(bitDepth))
		lo, hi := -scale, scale-1

		samples := interleave(clip.Channels)
		data := make([]int, len(samples))
		for i, v := range samples {
			data[i] = int(math.Max(lo, math.Min(hi, math.Round(float64(v)*scale))))
		}
		return data, nil
	}

	data := make([]int, clip.Len()*numChans)
	for ch, samples := range clip.Channels {
		opts := []dither.Option{dither.WithType(cfg.typ), dither.WithShaping(cfg.shaping)}
		if cfg.seeded {
			opts = append(opts, dither.WithSeed(cfg.seed+uint64(ch)))
		}

		q, err := dither.New(bitDepth, opts...)
		if err != nil {
			return nil, fmt.Errorf("audiofile: %w", err)
		}
		q.QuantizeTo(data[ch:], samples, numChans)
	}
	return data, nil
}
