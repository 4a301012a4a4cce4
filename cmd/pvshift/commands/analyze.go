package commands

import (
	"fmt"
	"math"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pvoc/audiofile"
	"github.com/cwbudde/algo-pvoc/dsp/fft"
	"github.com/cwbudde/algo-pvoc/dsp/level"
	"github.com/cwbudde/algo-pvoc/dsp/spectrum"
)

// Report is the YAML document printed by analyze.
type Report struct {
	File       string          `yaml:"file"`
	SampleRate int             `yaml:"sample_rate"`
	BitDepth   int             `yaml:"bit_depth"`
	Seconds    float64         `yaml:"seconds"`
	Frame      int             `yaml:"frame"`
	Channels   []ChannelReport `yaml:"channels"`
}

// ChannelReport summarises one channel.
type ChannelReport struct {
	Index      int     `yaml:"index"`
	PeakHz     float64 `yaml:"peak_hz"`
	CentroidHz float64 `yaml:"centroid_hz"`
	RMSdB      float64 `yaml:"rms_db"`
	PeakdB     float64 `yaml:"peak_db"`
	CrestdB    float64 `yaml:"crest_db"`
	DC         float64 `yaml:"dc"`
	Crossings  int     `yaml:"zero_crossings"`
	Clipped    int     `yaml:"clipped"`
}

func newAnalyzeCmd() *cobra.Command {
	var frame int

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Report dominant frequency and spectral centroid",
		Long: `Print a YAML report per channel: the dominant frequency of the central
frame (parabolic peak interpolation), the mean spectral centroid over an STFT
with 50% overlap, RMS, peak and crest levels in dBFS, DC offset, zero
crossings and the number of clipped samples.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clip, err := audiofile.Load(args[0])
			if err != nil {
				return err
			}

			report, err := analyzeClip(args[0], clip, frame)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(report)
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().IntVar(&frame, "frame", 4096, "analysis frame size (power of two)")

	return cmd
}

func analyzeClip(name string, clip *audiofile.Clip, frame int) (*Report, error) {
	tr, err := fft.New(frame, fft.BackendAlgoFFT)
	if err != nil {
		return nil, err
	}

	rate := float64(clip.SampleRate)
	report := &Report{
		File:       name,
		SampleRate: clip.SampleRate,
		BitDepth:   clip.BitDepth,
		Seconds:    clip.Duration(),
		Frame:      frame,
	}

	for ch, data := range clip.Channels {
		start := max(0, (len(data)-frame)/2)
		end := min(len(data), start+frame)

		peakHz, err := spectrum.PeakFrequency(data[start:end], rate, tr)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}

		rows := spectrum.Spectrogram(data, frame, frame/2)

		lv := level.Measure(data)
		report.Channels = append(report.Channels, ChannelReport{
			Index:      ch,
			PeakHz:     round(peakHz, 2),
			CentroidHz: round(spectrum.MeanCentroid(rows, frame, rate), 2),
			RMSdB:      round(spectrum.ToDB(lv.RMS), 2),
			PeakdB:     round(spectrum.ToDB(lv.Peak), 2),
			CrestdB:    round(lv.CrestdB(), 2),
			DC:         round(lv.DC, 6),
			Crossings:  lv.ZeroCrossings,
			Clipped:    lv.Clipped,
		})
	}

	return report, nil
}

func round(v float64, digits int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return -999
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
