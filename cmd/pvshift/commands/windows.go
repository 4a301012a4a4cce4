package commands

import (
	"fmt"
	"io"
	"math"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pvoc/dsp/window"
)

// windowRow holds the properties printed for one window.
type windowRow struct {
	Type         window.Type
	CoherentGain float64
	ENBW         float64 // bins
	OLAGain      float64 // mean w^2 overlap at the synthesis hop
	RippledB     float64 // max/min of the overlap, 0 for a flat sum
}

func newWindowsCmd() *cobra.Command {
	var (
		frame    int
		periodic bool
	)

	cmd := &cobra.Command{
		Use:   "windows [name ...]",
		Short: "Compare analysis windows at the vocoder hop",
		Long: `Print coherent gain, equivalent noise bandwidth and the overlap-add
behaviour of each window at the synthesis hop (frame/4). The overlap gain is
what the streaming shifter divides out; a large ripple means the window does
not sum flat at that hop.

Without arguments every supported window is listed.`,
		Example: `  pvshift windows
  pvshift windows --frame 4096 hann hamming`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := window.Types()
			if len(args) > 0 {
				types = types[:0:0]
				for _, name := range args {
					t, err := window.ParseType(name)
					if err != nil {
						return err
					}
					if !slices.Contains(types, t) {
						types = append(types, t)
					}
				}
			}

			rows := make([]windowRow, 0, len(types))
			for _, t := range types {
				row, err := analyzeWindow(t, frame, periodic)
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}

			return printWindows(cmd.OutOrStdout(), rows, frame)
		},
	}

	cmd.Flags().IntVar(&frame, "frame", 2048, "window length in samples")
	cmd.Flags().BoolVar(&periodic, "periodic", false, "use the periodic (FFT) form instead of the symmetric one")

	return cmd
}

func analyzeWindow(t window.Type, frame int, periodic bool) (windowRow, error) {
	if frame < 4 {
		return windowRow{}, fmt.Errorf("frame must be at least 4 samples, got %d", frame)
	}

	var opts []window.Option
	if periodic {
		opts = append(opts, window.WithPeriodic())
	}
	coeffs := window.Generate(t, frame, opts...)

	var sum, sumSq float64
	for _, w := range coeffs {
		sum += w
		sumSq += w * w
	}

	ola, err := window.OverlapEnergy(coeffs, frame/4)
	if err != nil {
		return windowRow{}, err
	}

	lo, hi := slices.Min(ola), slices.Max(ola)
	var mean float64
	for _, v := range ola {
		mean += v
	}
	mean /= float64(len(ola))

	ripple := math.Inf(1)
	if lo > 0 {
		ripple = 10 * math.Log10(hi/lo)
	}

	return windowRow{
		Type:         t,
		CoherentGain: sum / float64(frame),
		ENBW:         float64(frame) * sumSq / (sum * sum),
		OLAGain:      mean,
		RippledB:     ripple,
	}, nil
}

func printWindows(w io.Writer, rows []windowRow, frame int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tHop\tCoherent Gain\tENBW [bins]\tOLA Gain\tOLA Ripple [dB]\n")
	fmt.Fprintf(tw, "------\t----\t---\t-------------\t-----------\t--------\t---------------\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.6f\t%.4f\t%.4f\t%.4f\n",
			r.Type, frame, frame/4, r.CoherentGain, r.ENBW, r.OLAGain, r.RippledB)
	}
	return tw.Flush()
}
