package stream

import (
	"errors"
	"testing"

	"github.com/faiface/beep"

	"github.com/cwbudde/algo-pvoc/internal/testutil"
)

type sliceStreamer struct {
	left, right []float32
	pos         int
	err         error
}

func (s *sliceStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.left) {
		return 0, false
	}
	n := min(len(samples), len(s.left)-s.pos)
	for i := range n {
		samples[i][0] = float64(s.left[s.pos+i])
		samples[i][1] = float64(s.right[s.pos+i])
	}
	s.pos += n
	return n, true
}

func (s *sliceStreamer) Err() error { return s.err }

// stallStreamer returns no samples without ending for its first stalls calls.
type stallStreamer struct {
	sliceStreamer
	stalls int
}

func (s *stallStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.stalls > 0 {
		s.stalls--
		return 0, true
	}
	return s.sliceStreamer.Stream(samples)
}

var _ beep.Streamer = (*Streamer)(nil)

func drainStreamer(t *testing.T, s beep.Streamer, bufLen int) (left, right []float32) {
	t.Helper()
	buf := make([][2]float64, bufLen)
	for {
		n, ok := s.Stream(buf)
		if !ok {
			return left, right
		}
		for i := range n {
			left = append(left, float32(buf[i][0]))
			right = append(right, float32(buf[i][1]))
		}
	}
}

func TestStreamerIdentityKeepsChannelsApart(t *testing.T) {
	const n = 6000

	src := &sliceStreamer{
		left:  testutil.DeterministicSine(440, 48000, 0.5, n),
		right: testutil.DeterministicNoise(5, 0.25, n),
	}

	s, err := NewStreamer(src, 1024, 1)
	if err != nil {
		t.Fatalf("NewStreamer() error = %v", err)
	}

	left, right := drainStreamer(t, s, 700)
	if s.Err() != nil {
		t.Fatalf("Err() = %v", s.Err())
	}

	testutil.RequireSliceNearlyEqual(t, left, src.left, 5e-3)
	testutil.RequireSliceNearlyEqual(t, right, src.right, 5e-3)
}

func TestStreamerFillsRequestedBlocks(t *testing.T) {
	const n = 5000

	src := &sliceStreamer{
		left:  testutil.DeterministicSine(300, 48000, 0.5, n),
		right: testutil.DeterministicSine(600, 48000, 0.5, n),
	}

	s, err := NewStreamer(src, 512, 1.5, WithSampleRate(48000))
	if err != nil {
		t.Fatalf("NewStreamer() error = %v", err)
	}

	buf := make([][2]float64, 256)
	total := 0
	for {
		got, ok := s.Stream(buf)
		if !ok {
			break
		}
		if got != len(buf) && !s.done {
			t.Fatalf("short block %d before end of stream", got)
		}
		total += got
	}

	if total < n*9/10 || total > n*11/10 {
		t.Fatalf("total = %d, want about %d", total, n)
	}
}

func TestStreamerReturnsOnEmptySourceRead(t *testing.T) {
	const n = 3000

	src := &stallStreamer{
		sliceStreamer: sliceStreamer{
			left:  testutil.DeterministicSine(440, 48000, 0.5, n),
			right: testutil.DeterministicSine(440, 48000, 0.5, n),
		},
		stalls: 2,
	}

	s, err := NewStreamer(src, 512, 1)
	if err != nil {
		t.Fatalf("NewStreamer() error = %v", err)
	}

	buf := make([][2]float64, 256)
	for i := range 2 {
		if got, ok := s.Stream(buf); got != 0 || !ok {
			t.Fatalf("stalled Stream() #%d = %d, %v, want 0, true", i, got, ok)
		}
	}

	left, _ := drainStreamer(t, s, 256)
	if len(left) != n {
		t.Fatalf("len = %d, want %d", len(left), n)
	}
}

func TestStreamerReportsSourceError(t *testing.T) {
	boom := errors.New("decode failed")
	src := &sliceStreamer{err: boom}

	s, err := NewStreamer(src, 256, 1)
	if err != nil {
		t.Fatalf("NewStreamer() error = %v", err)
	}

	if n, ok := s.Stream(make([][2]float64, 16)); ok || n != 0 {
		t.Fatalf("Stream() = %d, %v, want 0, false", n, ok)
	}
	if !errors.Is(s.Err(), boom) {
		t.Fatalf("Err() = %v, want %v", s.Err(), boom)
	}
}
