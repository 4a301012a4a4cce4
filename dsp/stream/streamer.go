package stream

import (
	"github.com/faiface/beep"

	"github.com/cwbudde/algo-pvoc/dsp/buffer"
)

// streamBlock is the number of source frames pulled per refill.
const streamBlock = 1024

// Streamer pitch-shifts a stereo beep.Streamer. Left and right run through
// independent Shifters so their phase tracking never mixes.
type Streamer struct {
	src      beep.Streamer
	channels [2]*Shifter
	pending  [2]*buffer.Ring
	scratch  *buffer.Pool
	block    [][2]float64
	done     bool
	err      error
}

// NewStreamer wraps src. Options apply to both channel Shifters.
func NewStreamer(src beep.Streamer, frameSize int, pitchRatio float64, opts ...Option) (*Streamer, error) {
	s := &Streamer{
		src:     src,
		scratch: buffer.NewPool(),
		block:   make([][2]float64, streamBlock),
	}

	for ch := range s.channels {
		sh, err := New(frameSize, pitchRatio, opts...)
		if err != nil {
			return nil, err
		}
		s.channels[ch] = sh
		s.pending[ch] = buffer.NewRing(2 * frameSize)
	}

	return s, nil
}

// Stream implements beep.Streamer. It pulls from the source until samples is
// full, the source is drained or the source returns no samples without
// being drained.
func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	for !s.done && s.pending[0].Len() < len(samples) {
		if !s.refill() {
			break
		}
	}

	n = min(len(samples), s.pending[0].Len(), s.pending[1].Len())
	if n == 0 && s.done {
		return 0, false
	}

	left := s.scratch.Get(n)
	right := s.scratch.Get(n)
	s.pending[0].Read(left)
	s.pending[1].Read(right)

	for i := range n {
		samples[i][0] = float64(left[i])
		samples[i][1] = float64(right[i])
	}

	s.scratch.Put(left)
	s.scratch.Put(right)

	return n, true
}

// Err returns the first source or processing error.
func (s *Streamer) Err() error {
	return s.err
}

// refill reports whether the source delivered samples or finished.
func (s *Streamer) refill() bool {
	n, ok := s.src.Stream(s.block)
	if !ok {
		s.finish()
		return true
	}
	if n == 0 {
		return false
	}

	left := s.scratch.Get(n)
	right := s.scratch.Get(n)
	defer s.scratch.Put(left)
	defer s.scratch.Put(right)

	for i := range n {
		left[i] = float32(s.block[i][0])
		right[i] = float32(s.block[i][1])
	}

	for ch, in := range [2][]float32{left, right} {
		out, err := s.channels[ch].Process(in)
		if err != nil {
			s.fail(err)
			return true
		}
		s.pending[ch].Write(out)
	}
	return true
}

func (s *Streamer) finish() {
	s.done = true
	if err := s.src.Err(); err != nil {
		s.err = err
		return
	}

	for ch := range s.channels {
		out, err := s.channels[ch].Flush()
		if err != nil {
			s.fail(err)
			return
		}
		s.pending[ch].Write(out)
	}
}

func (s *Streamer) fail(err error) {
	s.done = true
	if s.err == nil {
		s.err = err
	}
}
