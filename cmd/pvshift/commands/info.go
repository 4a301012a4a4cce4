package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pvoc/dsp/vocoder"
	"github.com/cwbudde/algo-pvoc/dsp/window"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")).Width(18)
	valueStyle = lipgloss.NewStyle()
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

func newInfoCmd() *cobra.Command {
	var (
		flags settingsFlags
		rate  int
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show derived vocoder parameters",
		Long: `Print the analysis and synthesis hop sizes, the realised stretch factor
and the latency for a frame size and pitch ratio.

The analysis hop is rounded down, so the realised ratio may differ slightly
from the requested one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			w, _ := window.ParseType(s.Window)
			e, err := vocoder.New(s.Frame, s.PitchRatio(), vocoder.WithWindow(w))
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderInfo(e, rate))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&rate, "rate", 48000, "sample rate used for latency in milliseconds")

	return cmd
}

func renderInfo(e *vocoder.Engine, rate int) string {
	stretch := e.StretchFactor()
	latencyMS := 1000 * float64(e.FrameSize()) / float64(rate)

	rows := [][2]string{
		{"frame size", strconv.Itoa(e.FrameSize())},
		{"requested ratio", strconv.FormatFloat(e.PitchRatio(), 'f', 4, 64)},
		{"analysis hop", strconv.Itoa(e.AnalysisHopSize())},
		{"synthesis hop", strconv.Itoa(e.SynthesisHopSize())},
		{"realised ratio", strconv.FormatFloat(stretch, 'f', 4, 64)},
		{"semitones", strconv.FormatFloat(12*math.Log2(stretch), 'f', 2, 64)},
		{"window", e.WindowType().String()},
		{"latency", fmt.Sprintf("%d samples (%.1f ms @ %d Hz)", e.FrameSize(), latencyMS, rate)},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("phase vocoder"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r[0]))
		b.WriteString(valueStyle.Render(r[1]))
		b.WriteString("\n")
	}
	if e.AnalysisHopSize() != e.SynthesisHopSize() {
		b.WriteString(dimStyle.Render(fmt.Sprintf("output is resampled by %d/%d to keep its duration",
			e.AnalysisHopSize(), e.SynthesisHopSize())))
		b.WriteString("\n")
	}

	return b.String()
}
