package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/x448/float16"

	"github.com/cwbudde/algo-pvoc/audiofile"
	"github.com/cwbudde/algo-pvoc/dsp/fft"
	"github.com/cwbudde/algo-pvoc/dsp/vocoder"
	"github.com/cwbudde/algo-pvoc/dsp/window"
)

// Trace is the msgpack document written by the trace command.
type Trace struct {
	Source       string       `msgpack:"source"`
	SampleRate   int          `msgpack:"sample_rate"`
	FrameSize    int          `msgpack:"frame_size"`
	PitchRatio   float64      `msgpack:"pitch_ratio"`
	AnalysisHop  int          `msgpack:"analysis_hop"`
	SynthesisHop int          `msgpack:"synthesis_hop"`
	Window       string       `msgpack:"window"`
	Half         bool         `msgpack:"half"`
	Frames       []TraceFrame `msgpack:"frames"`
}

// TraceFrame is the engine state after one Process call. Exactly one of the
// float32 or half-precision field sets is filled, depending on Trace.Half.
type TraceFrame struct {
	Index  int `msgpack:"index"`
	Offset int `msgpack:"offset"`

	Magnitudes []float32 `msgpack:"magnitudes,omitempty"`
	LastPhase  []float32 `msgpack:"last_phase,omitempty"`
	AccumPhase []float32 `msgpack:"accum_phase,omitempty"`

	Magnitudes16 []uint16 `msgpack:"magnitudes16,omitempty"`
	LastPhase16  []uint16 `msgpack:"last_phase16,omitempty"`
	AccumPhase16 []uint16 `msgpack:"accum_phase16,omitempty"`
}

func newTraceCmd() *cobra.Command {
	var (
		flags  settingsFlags
		frames int
		half   bool
	)

	cmd := &cobra.Command{
		Use:   "trace IN OUT",
		Short: "Dump per-frame vocoder state as msgpack",
		Long: `Run the vocoder on the first frames of channel 0 of IN and write the
per-bin magnitudes, last observed phase and accumulated synthesis phase of
every frame to OUT as msgpack. --half stores the values as IEEE 754
half-precision bit patterns.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			clip, err := audiofile.Load(args[0])
			if err != nil {
				return err
			}
			if clip.NumChannels() == 0 {
				return fmt.Errorf("%s has no audio channels", args[0])
			}

			tr, err := traceChannel(clip.Channels[0], s, frames, half)
			if err != nil {
				return err
			}
			tr.Source = args[0]
			tr.SampleRate = clip.SampleRate

			data, err := msgpack.Marshal(tr)
			if err != nil {
				return fmt.Errorf("failed to encode trace: %w", err)
			}
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return fmt.Errorf("failed to write trace: %w", err)
			}

			slog.Info("wrote trace", "path", args[1], "frames", len(tr.Frames), "bytes", len(data))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&frames, "frames", 8, "number of frames to trace")
	cmd.Flags().BoolVar(&half, "half", false, "store values as float16")

	return cmd
}

func traceChannel(data []float32, s Settings, frames int, half bool) (*Trace, error) {
	w, err := window.ParseType(s.Window)
	if err != nil {
		return nil, err
	}

	b, err := fft.ParseBackend(s.Backend)
	if err != nil {
		return nil, err
	}

	e, err := vocoder.New(s.Frame, s.PitchRatio(), vocoder.WithWindow(w), vocoder.WithBackend(b))
	if err != nil {
		return nil, err
	}

	tr := &Trace{
		FrameSize:    e.FrameSize(),
		PitchRatio:   e.PitchRatio(),
		AnalysisHop:  e.AnalysisHopSize(),
		SynthesisHop: e.SynthesisHopSize(),
		Window:       w.String(),
		Half:         half,
	}

	for i := range frames {
		off := i * e.AnalysisHopSize()
		if off >= len(data) {
			break
		}
		frame := data[off:min(len(data), off+e.FrameSize())]

		if err := e.Process(frame); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		n := len(frame)
		tf := TraceFrame{Index: i, Offset: off}
		if half {
			tf.Magnitudes16 = toHalf(e.Magnitudes())
			tf.LastPhase16 = toHalf(e.LastPhase()[:n])
			tf.AccumPhase16 = toHalf(e.AccumulatedPhase()[:n])
		} else {
			tf.Magnitudes = clone(e.Magnitudes())
			tf.LastPhase = clone(e.LastPhase()[:n])
			tf.AccumPhase = clone(e.AccumulatedPhase()[:n])
		}
		tr.Frames = append(tr.Frames, tf)
	}

	return tr, nil
}

func toHalf(src []float32) []uint16 {
	out := make([]uint16, len(src))
	for i, v := range src {
		out[i] = float16.Fromfloat32(v).Bits()
	}
	return out
}

func clone(src []float32) []float32 {
	return append([]float32(nil), src...)
}
