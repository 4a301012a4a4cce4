package audiofile

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// DecodeFLAC reads a whole FLAC stream.
func DecodeFLAC(r io.Reader) (*Clip, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode flac: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)
	if channels < 1 || bitDepth < 4 || bitDepth > 32 {
		return nil, fmt.Errorf("audiofile: decode flac: %d channels, %d bits", channels, bitDepth)
	}

	clip := &Clip{
		SampleRate: int(info.SampleRate),
		BitDepth:   bitDepth,
		Channels:   make([][]float32, channels),
	}
	for ch := range channels {
		clip.Channels[ch] = make([]float32, 0, info.NSamples)
	}

	inv := 1 / fullScale(bitDepth)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audiofile: decode flac: %w", err)
		}

		for ch, sub := range frame.Subframes {
			if ch >= channels {
				break
			}
			for _, s := range sub.Samples {
				clip.Channels[ch] = append(clip.Channels[ch], float32(s)*inv)
			}
		}
	}

	return clip, nil
}
