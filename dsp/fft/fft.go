package fft

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSize is returned when a transform length is not a power of two >= 2.
	ErrInvalidSize = errors.New("fft: size must be a power of two >= 2")
	// ErrShortBuffer is returned when a buffer cannot hold 2*Size() values.
	ErrShortBuffer = errors.New("fft: buffer shorter than 2*size")
	// ErrUnknownBackend is returned for an unrecognised backend.
	ErrUnknownBackend = errors.New("fft: unknown backend")
)

// Transform is an in-place real-to-interleaved-complex transform of fixed size.
//
// Implementations own scratch memory and are not safe for concurrent use.
type Transform interface {
	// Size returns the transform length in samples.
	Size() int
	// Forward transforms buf[0:Size()] into an interleaved spectrum in buf[0:2*Size()].
	Forward(buf []float32) error
	// Inverse transforms an interleaved spectrum back into buf[0:Size()].
	Inverse(buf []float32) error
}

// Backend selects the FFT implementation behind a Transform.
type Backend int

const (
	BackendAlgoFFT Backend = iota
	BackendGonum
	BackendGoDSP
)

var backendNames = map[Backend]string{
	BackendAlgoFFT: "algofft",
	BackendGonum:   "gonum",
	BackendGoDSP:   "godsp",
}

// String returns the backend name accepted by ParseBackend.
func (b Backend) String() string {
	if name, ok := backendNames[b]; ok {
		return name
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ParseBackend resolves a backend name.
func ParseBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for b, n := range backendNames {
		if n == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Backends lists all available backends.
func Backends() []Backend {
	return []Backend{BackendAlgoFFT, BackendGonum, BackendGoDSP}
}

// New creates a Transform of the given size using backend.
func New(size int, backend Backend) (Transform, error) {
	if !isPowerOf2(size) || size < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	switch backend {
	case BackendAlgoFFT:
		return newAlgoTransform(size)
	case BackendGonum:
		return newGonumTransform(size), nil
	case BackendGoDSP:
		return newGoDSPTransform(size), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, backend)
	}
}

func checkBuffer(buf []float32, size int) error {
	if len(buf) < 2*size {
		return fmt.Errorf("%w: got %d, need %d", ErrShortBuffer, len(buf), 2*size)
	}
	return nil
}

func isPowerOf2(v int) bool {
	return v > 0 && (v&(v-1)) == 0
}

// loadReal128 copies the real input into a complex128 work slice.
func loadReal128(dst []complex128, buf []float32) {
	for i := range dst {
		dst[i] = complex(float64(buf[i]), 0)
	}
}

// storeSpectrum128 interleaves a complex128 spectrum into buf.
func storeSpectrum128(buf []float32, spec []complex128) {
	for i, c := range spec {
		buf[2*i] = float32(real(c))
		buf[2*i+1] = float32(imag(c))
	}
}

// loadSpectrum128 de-interleaves buf into a complex128 spectrum.
func loadSpectrum128(dst []complex128, buf []float32) {
	for i := range dst {
		dst[i] = complex(float64(buf[2*i]), float64(buf[2*i+1]))
	}
}

// storeReal128 writes scale*real(seq) into buf[0:n] and clears buf[n:2n].
func storeReal128(buf []float32, seq []complex128, scale float64) {
	n := len(seq)
	for i, c := range seq {
		buf[i] = float32(real(c) * scale)
	}
	clear(buf[n : 2*n])
}
