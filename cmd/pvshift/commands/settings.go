package commands

import (
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pvoc/audiofile"
	"github.com/cwbudde/algo-pvoc/dsp/dither"
	"github.com/cwbudde/algo-pvoc/dsp/fft"
	"github.com/cwbudde/algo-pvoc/dsp/resample"
	"github.com/cwbudde/algo-pvoc/dsp/stream"
	"github.com/cwbudde/algo-pvoc/dsp/window"
)

// Settings holds vocoder parameters shared by the processing commands. It
// doubles as the YAML config file schema.
type Settings struct {
	Frame              int     `yaml:"frame"`
	Ratio              float64 `yaml:"ratio"`
	Semitones          float64 `yaml:"semitones"`
	Window             string  `yaml:"window"`
	Backend            string  `yaml:"backend"`
	Resampler          string  `yaml:"resampler"`
	Quality            string  `yaml:"quality"`
	DurationCorrection bool    `yaml:"duration_correction"`
	BitDepth           int     `yaml:"bit_depth"`
	GainDB             float64 `yaml:"gain_db"`
	Dither             string  `yaml:"dither"`
	NoiseShaping       string  `yaml:"noise_shaping"`
}

func defaultSettings() Settings {
	return Settings{
		Frame:              2048,
		Ratio:              1,
		Window:             window.TypeHamming.String(),
		Backend:            fft.BackendAlgoFFT.String(),
		Resampler:          resample.BackendResampling.String(),
		Quality:            resample.QualityBalanced.String(),
		DurationCorrection: true,
		Dither:             dither.None.String(),
		NoiseShaping:       dither.ShapeNone.String(),
	}
}

// LoadSettings reads a YAML settings file on top of the defaults.
func LoadSettings(path string) (Settings, error) {
	s := defaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return s, nil
}

// settingsFlags binds Settings fields to cobra flags and merges a config
// file underneath whatever the user set explicitly.
type settingsFlags struct {
	Settings
	configPath string
	noCorrect  bool
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	d := defaultSettings()
	f.Settings = d

	fs := cmd.Flags()
	fs.IntVar(&f.Frame, "frame", d.Frame, "frame size in samples (power of two)")
	fs.Float64Var(&f.Ratio, "ratio", d.Ratio, "pitch ratio (output/input)")
	fs.Float64Var(&f.Semitones, "semitones", 0, "pitch shift in semitones (overrides --ratio)")
	fs.StringVar(&f.Window, "window", d.Window, "window: rectangular, hann, hamming, blackman, blackman-harris")
	fs.StringVar(&f.Backend, "backend", d.Backend, "FFT backend: algofft, gonum, godsp")
	fs.StringVar(&f.Resampler, "resampler", d.Resampler, "duration correction: polyphase, resampling")
	fs.StringVar(&f.Quality, "quality", d.Quality, "resampler quality: fast, balanced, best")
	fs.BoolVar(&f.noCorrect, "no-duration-correction", false, "keep the time-stretched length instead of resampling")
	fs.Float64Var(&f.GainDB, "gain-db", 0, "output gain in dB")
	fs.StringVar(&f.Dither, "dither", d.Dither, "requantisation dither: none, rectangular, triangular")
	fs.StringVar(&f.NoiseShaping, "noise-shaping", d.NoiseShaping, "dither noise shaping: none, efb, 2sc, 3fc")
	fs.StringVar(&f.configPath, "config", "", "YAML settings file")
}

// resolve applies the config file to every flag the user did not set.
func (f *settingsFlags) resolve(cmd *cobra.Command) (Settings, error) {
	out := f.Settings
	out.DurationCorrection = !f.noCorrect

	if f.configPath == "" {
		return out, out.validate()
	}

	file, err := LoadSettings(f.configPath)
	if err != nil {
		return out, err
	}

	fs := cmd.Flags()
	keep := func(name string) bool { return fs.Changed(name) }

	if !keep("frame") {
		out.Frame = file.Frame
	}
	if !keep("ratio") {
		out.Ratio = file.Ratio
	}
	switch {
	case keep("semitones"):
	case keep("ratio"):
		out.Semitones = 0
	default:
		out.Semitones = file.Semitones
	}
	if !keep("window") {
		out.Window = file.Window
	}
	if !keep("backend") {
		out.Backend = file.Backend
	}
	if !keep("resampler") {
		out.Resampler = file.Resampler
	}
	if !keep("quality") {
		out.Quality = file.Quality
	}
	if !keep("no-duration-correction") {
		out.DurationCorrection = file.DurationCorrection
	}
	if !keep("gain-db") {
		out.GainDB = file.GainDB
	}
	if !keep("dither") && file.Dither != "" {
		out.Dither = file.Dither
	}
	if !keep("noise-shaping") && file.NoiseShaping != "" {
		out.NoiseShaping = file.NoiseShaping
	}
	if fs.Lookup("bit-depth") != nil && !keep("bit-depth") && file.BitDepth != 0 {
		out.BitDepth = file.BitDepth
	}

	return out, out.validate()
}

// PitchRatio returns the effective pitch ratio; semitones win over ratio.
func (s Settings) PitchRatio() float64 {
	if s.Semitones != 0 {
		return math.Exp2(s.Semitones / 12)
	}
	return s.Ratio
}

func (s Settings) validate() error {
	if _, err := window.ParseType(s.Window); err != nil {
		return err
	}
	if _, err := fft.ParseBackend(s.Backend); err != nil {
		return err
	}
	if _, err := resample.ParseBackend(s.Resampler); err != nil {
		return err
	}
	if _, err := resample.ParseQuality(s.Quality); err != nil {
		return err
	}
	if _, err := dither.ParseType(s.Dither); err != nil {
		return err
	}
	if _, err := dither.ParseShaping(s.NoiseShaping); err != nil {
		return err
	}
	return nil
}

// encodeOptions converts validated dither settings into WAV encoder options.
func (s Settings) encodeOptions() []audiofile.EncodeOption {
	t, _ := dither.ParseType(s.Dither)
	sh, _ := dither.ParseShaping(s.NoiseShaping)
	if t == dither.None && sh == dither.ShapeNone {
		return nil
	}
	return []audiofile.EncodeOption{audiofile.WithDither(t, sh)}
}

// streamOptions converts validated settings into Shifter options.
func (s Settings) streamOptions(sampleRate int) []stream.Option {
	w, _ := window.ParseType(s.Window)
	b, _ := fft.ParseBackend(s.Backend)
	r, _ := resample.ParseBackend(s.Resampler)
	q, _ := resample.ParseQuality(s.Quality)

	opts := []stream.Option{
		stream.WithWindow(w),
		stream.WithBackend(b),
		stream.WithResampler(r),
		stream.WithResampleQuality(q),
		stream.WithDurationCorrection(s.DurationCorrection),
	}
	if sampleRate > 0 {
		opts = append(opts, stream.WithSampleRate(float64(sampleRate)))
	}
	if s.GainDB != 0 {
		opts = append(opts, stream.WithGain(float32(math.Pow(10, s.GainDB/20))))
	}
	return opts
}
