package stream

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pvoc/dsp/buffer"
	"github.com/cwbudde/algo-pvoc/dsp/resample"
	"github.com/cwbudde/algo-pvoc/dsp/vocoder"
	"github.com/tphakala/simd/f32"
)

// normFloor bounds the overlap-add normaliser away from zero at window edges.
const normFloor = 1e-6

// Shifter is a streaming pitch shifter for one mono channel.
//
// Output sample j of the time-stretched signal lines up with input sample
// j*Ha/Hs; with duration correction enabled (the default) it lines up with
// input sample j. A Shifter is not safe for concurrent use; stereo material
// needs one Shifter per channel.
type Shifter struct {
	engine  *vocoder.Engine
	conv    resample.Converter
	correct bool
	gain    float32

	frameSize int
	ha        int
	hs        int

	in    *buffer.Ring
	frame []float32
	acc   []float32
	norm  []float32
	win2  []float32

	totalIn int
	emitted int
	// skip counts hop samples not yet received when Ha exceeds the frame
	// size; they are dropped from the next writes.
	skip int
}

// New creates a Shifter with frames of frameSize samples and the given
// pitch ratio. It returns the engine construction error for invalid
// parameters.
func New(frameSize int, pitchRatio float64, opts ...Option) (*Shifter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	engine, err := vocoder.New(frameSize, pitchRatio, cfg.engine...)
	if err != nil {
		return nil, err
	}

	s := &Shifter{
		engine:    engine,
		correct:   cfg.correct,
		gain:      cfg.gain,
		frameSize: frameSize,
		ha:        engine.AnalysisHopSize(),
		hs:        engine.SynthesisHopSize(),
		in:        buffer.NewRing(2 * frameSize),
		frame:     make([]float32, frameSize),
		acc:       make([]float32, frameSize),
		norm:      make([]float32, frameSize),
		win2:      engine.Window().Squared(),
	}

	if cfg.correct && s.ha != s.hs {
		s.conv, err = resample.New(cfg.resampler, s.ha, s.hs, cfg.sampleRate, cfg.quality)
		if err != nil {
			return nil, fmt.Errorf("stream: duration correction: %w", err)
		}
	}

	return s, nil
}

// Engine returns the underlying vocoder engine.
func (s *Shifter) Engine() *vocoder.Engine { return s.engine }

// Latency returns how many input samples must be buffered before the first
// output block is produced.
func (s *Shifter) Latency() int { return s.frameSize }

// Process consumes in and returns whatever output became available. The
// returned slice is freshly allocated and may be empty.
func (s *Shifter) Process(in []float32) ([]float32, error) {
	s.push(in)
	s.totalIn += len(in)

	out, err := s.drain(nil)
	if err != nil {
		return nil, err
	}

	return s.finish(out)
}

// Flush pads the stream with silence until every input sample has been
// synthesised, drains the duration correction filter and resets the
// Shifter for a new stream.
func (s *Shifter) Flush() ([]float32, error) {
	defer s.Reset()

	target := int(math.Round(float64(s.totalIn) * float64(s.hs) / float64(s.ha)))

	var out []float32
	zeros := make([]float32, s.ha)
	for s.emitted < target {
		s.push(zeros)

		var err error
		out, err = s.drain(out)
		if err != nil {
			return nil, err
		}
	}

	// Output already returned by Process cannot be taken back.
	if excess := min(s.emitted-target, len(out)); excess > 0 {
		out = out[:len(out)-excess]
	}

	out, err := s.finish(out)
	if err != nil {
		return nil, err
	}

	if s.conv != nil {
		tail, err := s.conv.Flush()
		if err != nil {
			return nil, fmt.Errorf("stream: %w", err)
		}
		s.scale(tail)
		out = append(out, tail...)
	}

	return out, nil
}

// Reset discards buffered audio and phase state.
func (s *Shifter) Reset() {
	s.engine.Reset()
	s.in.Reset()
	clear(s.acc)
	clear(s.norm)
	s.totalIn = 0
	s.emitted = 0
	s.skip = 0
	if s.conv != nil {
		s.conv.Reset()
	}
}

func (s *Shifter) push(in []float32) {
	if s.skip > 0 {
		n := min(s.skip, len(in))
		in = in[n:]
		s.skip -= n
	}
	s.in.Write(in)
}

// drain runs the engine on every complete frame in the input ring and
// appends one synthesis hop of finished output per frame.
func (s *Shifter) drain(out []float32) ([]float32, error) {
	for s.in.Len() >= s.frameSize {
		s.in.Peek(s.frame)
		s.skip += s.ha - s.in.Discard(s.ha)

		if err := s.engine.Process(s.frame); err != nil {
			return out, fmt.Errorf("stream: %w", err)
		}

		synth := s.engine.Output()
		for i, v := range synth {
			s.acc[i] += v
			s.norm[i] += s.win2[i]
		}

		for i := range s.hs {
			out = append(out, s.acc[i]/max(s.norm[i], normFloor))
		}
		s.emitted += s.hs

		copy(s.acc, s.acc[s.hs:])
		clear(s.acc[s.frameSize-s.hs:])
		copy(s.norm, s.norm[s.hs:])
		clear(s.norm[s.frameSize-s.hs:])
	}

	return out, nil
}

func (s *Shifter) finish(out []float32) ([]float32, error) {
	if s.conv != nil && len(out) > 0 {
		var err error
		out, err = s.conv.Process(out)
		if err != nil {
			return nil, fmt.Errorf("stream: %w", err)
		}
	}

	s.scale(out)
	return out, nil
}

func (s *Shifter) scale(buf []float32) {
	if s.gain != 1 && len(buf) > 0 {
		f32.Scale(buf, buf, s.gain)
	}
}

// ProcessAll pitch-shifts a whole buffer in one call. With duration
// correction enabled the result is trimmed or zero-padded to len(in).
func ProcessAll(in []float32, frameSize int, pitchRatio float64, opts ...Option) ([]float32, error) {
	s, err := New(frameSize, pitchRatio, opts...)
	if err != nil {
		return nil, err
	}

	out, err := s.Process(in)
	if err != nil {
		return nil, err
	}

	tail, err := s.Flush()
	if err != nil {
		return nil, err
	}
	out = append(out, tail...)

	if !s.correct {
		return out, nil
	}

	if len(out) >= len(in) {
		return out[:len(in)], nil
	}
	return append(out, make([]float32, len(in)-len(out))...), nil
}
