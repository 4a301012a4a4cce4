package audiofile

import (
	"fmt"
	"os"

	"github.com/faiface/beep"
	beepwav "github.com/faiface/beep/wav"
)

// OpenStream opens a WAV file as a beep streamer. Mono files are presented
// with the channel duplicated to both sides. Samples use the same full scale
// as DecodeWAV. The caller must Close the returned streamer, which also
// closes the file.
func OpenStream(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audiofile: %w", err)
	}

	s, format, err := beepwav.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("audiofile: %w", err)
	}

	if g := decodeGain(format.Precision); g != 1 {
		return &gainStreamer{StreamSeekCloser: s, gain: g}, format, nil
	}
	return s, format, nil
}

// decodeGain corrects beep's 16- and 24-bit WAV decoder, which divides by
// 2^bits-1 instead of 2^(bits-1) and so returns half the amplitude.
func decodeGain(precision int) float64 {
	if precision < 2 {
		return 1
	}
	bits := 8 * precision
	return float64(uint64(1)<<bits-1) / float64(uint64(1)<<(bits-1))
}

type gainStreamer struct {
	beep.StreamSeekCloser
	gain float64
}

func (g *gainStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.StreamSeekCloser.Stream(samples)
	for i := range samples[:n] {
		samples[i][0] *= g.gain
		samples[i][1] *= g.gain
	}
	return n, ok
}

// WriteStream drains s into a WAV file at path with the given bit depth
// (16 or 24).
func WriteStream(path string, s beep.Streamer, sampleRate int, numChannels int, bitDepth int) (err error) {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
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

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: numChannels,
		Precision:   bitDepth / 8,
	}
	if err := beepwav.Encode(f, s, format); err != nil {
		return fmt.Errorf("audiofile: encode wav: %w", err)
	}

	return nil
}
