package window

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateAllTypes(t *testing.T) {
	for _, typ := range Types() {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
				if v < -1e-12 || v > 1+1e-12 {
					t.Fatalf("coefficient[%d] out of [0,1]: %v", i, v)
				}
			}
		})
	}
}

func TestGenerateSymmetric(t *testing.T) {
	for _, typ := range Types() {
		w := Generate(typ, 33)
		for i := range w {
			if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
				t.Fatalf("%s: w[%d]=%v != w[%d]=%v", typ, i, w[i], len(w)-1-i, w[len(w)-1-i])
			}
		}
	}
}

func TestHammingEndpoints(t *testing.T) {
	w := Generate(TypeHamming, 1024)
	if math.Abs(w[0]-0.08) > 1e-12 || math.Abs(w[1023]-0.08) > 1e-12 {
		t.Fatalf("endpoints = %v, %v, want 0.08", w[0], w[1023])
	}

	p := Generate(TypeHamming, 1024, WithPeriodic())
	if math.Abs(p[512]-1) > 1e-12 {
		t.Fatalf("periodic midpoint = %v, want 1", p[512])
	}
}

func TestGenerateNormalised(t *testing.T) {
	for _, typ := range Types() {
		w := Generate(typ, 256, WithNormalised())
		plain := Generate(typ, 256)

		var sum float64
		for _, v := range w {
			sum += v
		}
		if mean := sum / 256; math.Abs(mean-1) > 1e-12 {
			t.Fatalf("%s: mean = %v, want 1", typ, mean)
		}
		if ratio := w[100] / plain[100]; math.Abs(ratio-w[128]/plain[128]) > 1e-12 {
			t.Fatalf("%s: normalisation changed the window shape", typ)
		}
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("expected nil for zero length")
	}
	if Generate(TypeHann, -3) != nil {
		t.Fatal("expected nil for negative length")
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(" " + typ.String() + " ")
		if err != nil {
			t.Fatalf("ParseType(%q) error = %v", typ.String(), err)
		}
		if got != typ {
			t.Fatalf("ParseType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}

	if _, err := ParseType("HAMMING"); err != nil {
		t.Fatalf("ParseType should be case-insensitive: %v", err)
	}

	_, err := ParseType("kaiser")
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("ParseType(kaiser) error = %v, want ErrUnknownType", err)
	}
}

func TestOverlapEnergyHannPeriodic(t *testing.T) {
	// Periodic Hann squared sums to 3/8 * N/hop at 75% overlap.
	const n = 256
	coeffs := Generate(TypeHann, n, WithPeriodic())

	got, err := OverlapEnergy(coeffs, n/4)
	if err != nil {
		t.Fatalf("OverlapEnergy() error = %v", err)
	}

	if len(got) != n/4 {
		t.Fatalf("len = %d, want %d", len(got), n/4)
	}

	for i, v := range got {
		if math.Abs(v-1.5) > 1e-9 {
			t.Fatalf("energy[%d] = %v, want 1.5", i, v)
		}
	}
}

func TestOverlapEnergyErrors(t *testing.T) {
	if _, err := OverlapEnergy(nil, 1); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
	if _, err := OverlapEnergy([]float64{1, 1}, 0); err == nil {
		t.Fatal("expected error for zero hop")
	}
	if _, err := OverlapEnergy([]float64{1, 1}, 3); err == nil {
		t.Fatal("expected error for hop > length")
	}
}

func TestApplyFloat64(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2}
	Apply(TypeHann, buf)

	want := Generate(TypeHann, 5)
	for i := range buf {
		if math.Abs(buf[i]-2*want[i]) > 1e-12 {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], 2*want[i])
		}
	}
}
