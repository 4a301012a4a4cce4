package audiofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tphakala/simd/f32"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than .wav and .flac.
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	// ErrInvalidWAV is returned when a stream is not a readable PCM WAV file.
	ErrInvalidWAV = errors.New("audiofile: invalid wav file")
	// ErrBitDepth is returned for bit depths that cannot be encoded.
	ErrBitDepth = errors.New("audiofile: unsupported bit depth")
	// ErrEmptyClip is returned when encoding a clip without channels.
	ErrEmptyClip = errors.New("audiofile: clip has no channels")
)

// Clip is decoded audio: one float32 slice per channel in [-1, 1).
type Clip struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float32
}

// NumChannels returns the channel count.
func (c *Clip) NumChannels() int { return len(c.Channels) }

// Len returns the number of sample frames (samples per channel).
func (c *Clip) Len() int {
	if len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.Len()) / float64(c.SampleRate)
}

// Mono returns the average of all channels. A mono clip returns a copy of
// its only channel.
func (c *Clip) Mono() []float32 {
	n := c.Len()
	out := make([]float32, n)
	if len(c.Channels) == 0 {
		return out
	}

	for _, ch := range c.Channels {
		for i := range n {
			out[i] += ch[i]
		}
	}
	if len(c.Channels) > 1 {
		f32.Scale(out, out, 1/float32(len(c.Channels)))
	}
	return out
}

// Load decodes path by extension (.wav or .flac).
func Load(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		return DecodeWAV(f)
	case ".flac":
		return DecodeFLAC(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Save writes clip to path as integer PCM WAV with the given bit depth.
func Save(path string, clip *Clip, bitDepth int, opts ...EncodeOption) (err error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".wav" && ext != ".wave" {
		return fmt.Errorf("%w: %q (only wav output)", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("audiofile: %w", cerr)
		}
	}()

	return EncodeWAV(f, clip, bitDepth, opts...)
}

// interleave packs channels into one frame-major slice.
func interleave(channels [][]float32) []float32 {
	n := len(channels[0])
	out := make([]float32, n*len(channels))

	switch len(channels) {
	case 1:
		copy(out, channels[0])
	case 2:
		f32.Interleave2(out, channels[0], channels[1])
	default:
		for ch, data := range channels {
			for i, v := range data {
				out[i*len(channels)+ch] = v
			}
		}
	}
	return out
}

// fullScale returns 2^(bitDepth-1).
func fullScale(bitDepth int) float32 {
	return float32(int64(1) << (bitDepth - 1))
}
