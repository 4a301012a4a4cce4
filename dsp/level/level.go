// Package level measures sample-domain levels of float32 audio: DC offset,
// RMS, peak, crest factor, zero crossings and clipping.
package level

import (
	"math"

	"github.com/tphakala/simd/f32"
)

// Levels summarises a block or a stream of samples.
type Levels struct {
	Samples       int
	DC            float64
	RMS           float64
	Peak          float64 // max |x|
	PeakPos       int
	ZeroCrossings int
	Clipped       int // samples with |x| >= 1
}

// Crest returns Peak/RMS, or 0 for silence.
func (l Levels) Crest() float64 {
	if l.RMS == 0 {
		return 0
	}
	return l.Peak / l.RMS
}

func (l Levels) RMSdB() float64   { return DB(l.RMS) }
func (l Levels) PeakdB() float64  { return DB(l.Peak) }
func (l Levels) CrestdB() float64 { return DB(l.Crest()) }

// DB converts a linear amplitude to dBFS. Zero maps to -Inf.
func DB(v float64) float64 {
	v = math.Abs(v)
	if v == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

// Measure computes the levels of samples in one pass.
func Measure(samples []float32) Levels {
	var m Meter
	m.Update(samples)
	return m.Result()
}

// Meter accumulates levels across blocks. Splitting a signal into blocks
// yields the same result as measuring it whole, up to float summation order.
// The zero value is ready to use.
type Meter struct {
	n       int
	sum     float64
	sumSq   float64
	peak    float64
	peakPos int
	zc      int
	clipped int
	last    float32
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float32) {
	if len(samples) == 0 {
		return
	}

	m.sum += float64(f32.Sum(samples))
	m.sumSq += float64(f32.DotProductUnsafe(samples, samples))

	prev := m.last
	for i, x := range samples {
		a := math.Abs(float64(x))
		if a > m.peak {
			m.peak = a
			m.peakPos = m.n + i
		}
		if a >= 1 {
			m.clipped++
		}
		if (m.n > 0 || i > 0) && prev*x < 0 {
			m.zc++
		}
		prev = x
	}

	m.last = prev
	m.n += len(samples)
}

// Result returns the levels accumulated so far.
func (m *Meter) Result() Levels {
	if m.n == 0 {
		return Levels{}
	}
	nf := float64(m.n)
	return Levels{
		Samples:       m.n,
		DC:            m.sum / nf,
		RMS:           math.Sqrt(m.sumSq / nf),
		Peak:          m.peak,
		PeakPos:       m.peakPos,
		ZeroCrossings: m.zc,
		Clipped:       m.clipped,
	}
}

// Reset clears the accumulated state.
func (m *Meter) Reset() { *m = Meter{} }
