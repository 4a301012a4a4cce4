package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pvoc/audiofile"
	"github.com/cwbudde/algo-pvoc/dsp/level"
	"github.com/cwbudde/algo-pvoc/dsp/stream"
)

func newShiftCmd() *cobra.Command {
	var (
		flags     settingsFlags
		streaming bool
	)

	cmd := &cobra.Command{
		Use:   "shift IN OUT",
		Short: "Pitch-shift an audio file",
		Long: `Pitch-shift IN (WAV or FLAC) and write OUT as PCM WAV.

The ratio is output pitch over input pitch: 2 is one octave up, 0.5 one
octave down. --semitones takes precedence over --ratio.

With --stream the WAV input is processed block by block through a stereo
streamer instead of being loaded into memory.`,
		Example: `  pvshift shift --semitones -3 in.wav out.wav
  pvshift shift --ratio 1.5 --frame 4096 --window hann in.flac out.wav
  pvshift shift --config preset.yaml --gain-db -3 in.wav out.wav`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			if streaming {
				return runShiftStream(args[0], args[1], s)
			}
			return runShift(args[0], args[1], s)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.BitDepth, "bit-depth", 0, "output bit depth: 16, 24 or 32 (default: input depth)")
	cmd.Flags().BoolVar(&streaming, "stream", false, "stream WAV input through a stereo streamer")

	return cmd
}

func runShift(in, out string, s Settings) error {
	clip, err := audiofile.Load(in)
	if err != nil {
		return err
	}

	ratio := s.PitchRatio()
	slog.Info("loaded input",
		"path", in,
		"rate", clip.SampleRate,
		"channels", clip.NumChannels(),
		"bits", clip.BitDepth,
		"seconds", clip.Duration(),
	)

	start := time.Now()
	shifted, err := shiftChannels(clip, ratio, s)
	if err != nil {
		return err
	}

	slog.Info("shifted",
		"ratio", ratio,
		"frame", s.Frame,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	reportLevels(shifted.Channels)

	bitDepth := outputBitDepth(s.BitDepth, clip.BitDepth)
	if err := audiofile.Save(out, shifted, bitDepth, s.encodeOptions()...); err != nil {
		return err
	}

	slog.Info("wrote output", "path", out, "bits", bitDepth, "dither", s.Dither)
	return nil
}

// shiftChannels runs every channel through its own Shifter in parallel.
func shiftChannels(clip *audiofile.Clip, ratio float64, s Settings) (*audiofile.Clip, error) {
	out := &audiofile.Clip{
		SampleRate: clip.SampleRate,
		BitDepth:   clip.BitDepth,
		Channels:   make([][]float32, clip.NumChannels()),
	}
	errs := make([]error, clip.NumChannels())
	opts := s.streamOptions(clip.SampleRate)

	var wg sync.WaitGroup
	for ch, data := range clip.Channels {
		wg.Go(func() {
			out.Channels[ch], errs[ch] = stream.ProcessAll(data, s.Frame, ratio, opts...)
		})
	}
	wg.Wait()

	for ch, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
	}

	return out, nil
}

func runShiftStream(in, out string, s Settings) error {
	if ext := strings.ToLower(filepath.Ext(in)); ext != ".wav" && ext != ".wave" {
		return fmt.Errorf("--stream needs WAV input, got %q", ext)
	}

	src, format, err := audiofile.OpenStream(in)
	if err != nil {
		return err
	}
	defer src.Close()

	rate := int(format.SampleRate)
	shifter, err := stream.NewStreamer(src, s.Frame, s.PitchRatio(), s.streamOptions(rate)...)
	if err != nil {
		return err
	}

	bitDepth := outputBitDepth(s.BitDepth, 8*format.Precision)
	if bitDepth == 32 {
		bitDepth = 24
	}

	if len(s.encodeOptions()) > 0 {
		slog.Warn("dither is not applied in stream mode", "dither", s.Dither)
	}

	metered := &meteredStreamer{src: shifter}

	slog.Info("streaming", "path", in, "rate", rate, "ratio", s.PitchRatio())
	if err := audiofile.WriteStream(out, metered, rate, 2, bitDepth); err != nil {
		return err
	}
	if err := shifter.Err(); err != nil {
		return err
	}
	reportLevels(nil, metered.meters[0].Result(), metered.meters[1].Result())

	slog.Info("wrote output", "path", out, "bits", bitDepth)
	return nil
}

// reportLevels logs the output level of each channel and warns about
// samples that will clip on export.
func reportLevels(channels [][]float32, measured ...level.Levels) {
	for _, data := range channels {
		measured = append(measured, level.Measure(data))
	}
	for ch, lv := range measured {
		slog.Debug("output level", "channel", ch, "peak_db", lv.PeakdB(), "rms_db", lv.RMSdB())
		if lv.Clipped > 0 {
			slog.Warn("output clips", "channel", ch, "samples", lv.Clipped, "peak_db", lv.PeakdB())
		}
	}
}

// meteredStreamer measures both channels of a stereo stream as it passes.
type meteredStreamer struct {
	src    beep.Streamer
	meters [2]level.Meter
	buf    [2][]float32
}

func (m *meteredStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := m.src.Stream(samples)
	for ch := range m.buf {
		m.buf[ch] = m.buf[ch][:0]
		for _, frame := range samples[:n] {
			m.buf[ch] = append(m.buf[ch], float32(frame[ch]))
		}
		m.meters[ch].Update(m.buf[ch])
	}
	return n, ok
}

func (m *meteredStreamer) Err() error { return m.src.Err() }

// outputBitDepth picks the requested depth or the nearest encodable one to
// the source.
func outputBitDepth(requested, source int) int {
	if requested != 0 {
		return requested
	}
	switch {
	case source > 24:
		return 32
	case source > 16:
		return 24
	default:
		return 16
	}
}
