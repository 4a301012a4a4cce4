package stream

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pvoc/dsp/resample"
	"github.com/cwbudde/algo-pvoc/dsp/vocoder"
	"github.com/cwbudde/algo-pvoc/dsp/window"
	"github.com/cwbudde/algo-pvoc/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(3, 1); !errors.Is(err, vocoder.ErrInvalidFrameSize) {
		t.Fatalf("New(3, 1) error = %v, want ErrInvalidFrameSize", err)
	}
	if _, err := New(1024, 0); !errors.Is(err, vocoder.ErrInvalidPitchRatio) {
		t.Fatalf("New(1024, 0) error = %v, want ErrInvalidPitchRatio", err)
	}
	if _, err := New(1024, 1.5, WithResampler(resample.Backend(7))); !errors.Is(err, resample.ErrUnknownBackend) {
		t.Fatalf("New(bad resampler) error = %v, want ErrUnknownBackend", err)
	}
}

func TestShifterAccessors(t *testing.T) {
	s, err := New(1024, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Latency() != 1024 {
		t.Fatalf("Latency() = %d, want 1024", s.Latency())
	}
	if e := s.Engine(); e.AnalysisHopSize() != 128 || e.SynthesisHopSize() != 256 {
		t.Fatalf("hops = %d/%d, want 128/256", e.AnalysisHopSize(), e.SynthesisHopSize())
	}
}

func TestIdentityRatioReconstructsInput(t *testing.T) {
	in := testutil.DeterministicNoise(7, 0.5, 8192)

	for _, w := range []window.Type{window.TypeHamming, window.TypeRectangular} {
		out, err := ProcessAll(in, 1024, 1, WithWindow(w))
		if err != nil {
			t.Fatalf("%v: ProcessAll() error = %v", w, err)
		}
		// Phase accumulates in float32 and reaches ~1600 rad by the end of
		// the signal, so each bin carries ~1e-4 rad of rounding. Summed over
		// the frame at amplitude 0.5 that gives errors of about 1e-3.
		testutil.RequireSliceNearlyEqual(t, out, in, 5e-3)
	}
}

func TestIdentityRatioSkipsResampler(t *testing.T) {
	s, err := New(512, 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.conv != nil {
		t.Fatal("expected no duration correction when hops are equal")
	}
}

func TestOutputLengthWithCorrection(t *testing.T) {
	in := testutil.DeterministicSine(440, 48000, 0.5, 10000)

	for _, ratio := range []float64{0.5, 0.75, 1.5, 2} {
		for _, b := range []resample.Backend{resample.BackendPolyphase, resample.BackendResampling} {
			out, err := ProcessAll(in, 1024, ratio, WithResampler(b))
			if err != nil {
				t.Fatalf("ratio %v %v: ProcessAll() error = %v", ratio, b, err)
			}
			if len(out) != len(in) {
				t.Fatalf("ratio %v %v: len = %d, want %d", ratio, b, len(out), len(in))
			}
			testutil.RequireFinite(t, out)
		}
	}
}

func TestStreamingLengthWithPolyphase(t *testing.T) {
	const n = 12000

	s, err := New(1024, 1.5, WithResampler(resample.BackendPolyphase))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := s.Process(testutil.DeterministicSine(440, 48000, 0.5, n))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	tail, err := s.Flush()
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if got := len(out) + len(tail); got < n-1 || got > n+1 {
		t.Fatalf("total output = %d, want %d±1", got, n)
	}
}

func TestOutputLengthWithoutCorrection(t *testing.T) {
	const n = 8000

	in := testutil.DeterministicSine(440, 48000, 0.5, n)
	out, err := ProcessAll(in, 1024, 2, WithDurationCorrection(false))
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}

	// Hs/Ha = 256/128 stretches by two.
	if len(out) != 2*n {
		t.Fatalf("len = %d, want %d", len(out), 2*n)
	}
	testutil.RequireFinite(t, out)
}

func TestChunkedMatchesWhole(t *testing.T) {
	in := testutil.DeterministicNoise(3, 0.3, 9000)
	opts := []Option{WithResampler(resample.BackendPolyphase)}

	whole, err := ProcessAll(in, 512, 1.5, opts...)
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}

	s, err := New(512, 1.5, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var chunked []float32
	for i := 0; i < len(in); i += 333 {
		out, err := s.Process(in[i:min(len(in), i+333)])
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		chunked = append(chunked, out...)
	}
	tail, err := s.Flush()
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	chunked = append(chunked, tail...)
	chunked = chunked[:min(len(chunked), len(in))]

	testutil.RequireSliceNearlyEqual(t, chunked, whole[:len(chunked)], 1e-6)
}

// Below ratio 0.25 the analysis hop exceeds the frame, so frames are
// separated by unread input.
func TestLowRatioChunkedMatchesWhole(t *testing.T) {
	in := testutil.DeterministicNoise(5, 0.3, 20000)

	for _, ratio := range []float64{0.1, 0.2} {
		opts := []Option{WithDurationCorrection(false)}

		whole, err := ProcessAll(in, 1024, ratio, opts...)
		if err != nil {
			t.Fatalf("ratio %v: ProcessAll() error = %v", ratio, err)
		}

		s, err := New(1024, ratio, opts...)
		if err != nil {
			t.Fatalf("ratio %v: New() error = %v", ratio, err)
		}

		var chunked []float32
		for i := 0; i < len(in); i += 700 {
			out, err := s.Process(in[i:min(len(in), i+700)])
			if err != nil {
				t.Fatalf("ratio %v: Process() error = %v", ratio, err)
			}
			chunked = append(chunked, out...)
		}
		tail, err := s.Flush()
		if err != nil {
			t.Fatalf("ratio %v: Flush() error = %v", ratio, err)
		}
		chunked = append(chunked, tail...)

		if len(chunked) != len(whole) {
			t.Fatalf("ratio %v: chunked len = %d, whole len = %d", ratio, len(chunked), len(whole))
		}
		testutil.RequireSliceNearlyEqual(t, chunked, whole, 1e-6)
	}
}

func TestLowRatioFlushLength(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		// Ha = 2560, Hs = 256.
		{ratio: 0.1, want: 300},
		// Ha = 1280, Hs = 256.
		{ratio: 0.2, want: 600},
	}

	in := testutil.DeterministicSine(440, 48000, 0.5, 3000)
	for _, tt := range tests {
		s, err := New(1024, tt.ratio, WithDurationCorrection(false))
		if err != nil {
			t.Fatalf("ratio %v: New() error = %v", tt.ratio, err)
		}

		out, err := s.Process(in)
		if err != nil {
			t.Fatalf("ratio %v: Process() error = %v", tt.ratio, err)
		}
		tail, err := s.Flush()
		if err != nil {
			t.Fatalf("ratio %v: Flush() error = %v", tt.ratio, err)
		}

		if got := len(out) + len(tail); got != tt.want {
			t.Fatalf("ratio %v: len = %d, want %d", tt.ratio, got, tt.want)
		}
		testutil.RequireFinite(t, append(out, tail...))
	}
}

func TestLowRatioSingleFrame(t *testing.T) {
	// One frame already emits more than round(1024*256/2560) = 102 samples.
	out, err := ProcessAll(make([]float32, 1024), 1024, 0.1, WithDurationCorrection(false))
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}
	if len(out) != 256 {
		t.Fatalf("len = %d, want 256", len(out))
	}

	out, err = ProcessAll(testutil.DeterministicNoise(9, 0.5, 1024), 1024, 0.1)
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}
	if len(out) != 1024 {
		t.Fatalf("corrected len = %d, want 1024", len(out))
	}
}

func TestFlushResetsShifter(t *testing.T) {
	in := testutil.DeterministicNoise(11, 0.5, 4000)

	s, err := New(512, 0.75, WithResampler(resample.BackendPolyphase))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	run := func() []float32 {
		out, err := s.Process(in)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		tail, err := s.Flush()
		if err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		return append(out, tail...)
	}

	first := run()
	second := run()
	testutil.RequireBitIdentical(t, second, first)
}

func TestGainScalesOutput(t *testing.T) {
	in := testutil.DeterministicSine(1000, 48000, 0.5, 4096)

	plain, err := ProcessAll(in, 1024, 1)
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}
	half, err := ProcessAll(in, 1024, 1, WithGain(0.5))
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}

	for i := range plain {
		plain[i] *= 0.5
	}
	testutil.RequireSliceNearlyEqual(t, half, plain, 1e-6)
}

func TestSilenceStaysSilent(t *testing.T) {
	out, err := ProcessAll(make([]float32, 5000), 1024, 1.5, WithResampler(resample.BackendPolyphase))
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}
	for i, v := range out {
		if math.Abs(float64(v)) > 1e-9 {
			t.Fatalf("out[%d] = %v, want 0", i, v)
		}
	}
}

func TestShortInputIsPaddedByFlush(t *testing.T) {
	in := testutil.DeterministicSine(440, 48000, 0.5, 100)

	out, err := ProcessAll(in, 1024, 1)
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, in, 1e-3)
}

func BenchmarkShifterProcess(b *testing.B) {
	s, err := New(2048, 1.5, WithResampler(resample.BackendPolyphase))
	if err != nil {
		b.Fatal(err)
	}
	block := testutil.DeterministicSine(440, 48000, 0.5, 512)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := s.Process(block); err != nil {
			b.Fatal(err)
		}
	}
}
