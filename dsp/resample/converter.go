package resample

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
	// ErrUnknownBackend is returned for unrecognised converter backends.
	ErrUnknownBackend = errors.New("resample: unknown backend")
	// ErrUnknownQuality is returned by ParseQuality for unrecognised names.
	ErrUnknownQuality = errors.New("resample: unknown quality")
)

// Converter is a streaming mono rate converter.
//
// Process may hold back samples for its filter history; Flush returns them
// at end of stream. A Converter is not safe for concurrent use.
type Converter interface {
	Process(in []float32) ([]float32, error)
	Flush() ([]float32, error)
	Reset()
}

// Backend selects a Converter implementation.
type Backend int

const (
	// BackendPolyphase is the in-tree rational polyphase FIR.
	BackendPolyphase Backend = iota
	// BackendResampling uses github.com/tphakala/go-audio-resampling.
	BackendResampling
)

var backendNames = [...]string{"polyphase", "resampling"}

// String returns the lower-case name of b.
func (b Backend) String() string {
	if b >= 0 && int(b) < len(backendNames) {
		return backendNames[b]
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ParseBackend resolves a backend name as printed by [Backend.String].
func ParseBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range backendNames {
		if n == name {
			return Backend(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// New returns a converter producing up output samples for every down input
// samples. sampleRate is the nominal input rate; only the resampling backend
// uses it to place its filter band edges.
func New(backend Backend, up, down int, sampleRate float64, q Quality) (Converter, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	switch backend {
	case BackendPolyphase:
		p, err := NewRational(up, down, WithQuality(q))
		if err != nil {
			return nil, err
		}
		return polyphaseConverter{p}, nil
	case BackendResampling:
		if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRate, sampleRate)
		}
		return newLibConverter(sampleRate, sampleRate*float64(up)/float64(down), q)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBackend, int(backend))
	}
}

type polyphaseConverter struct {
	*Polyphase
}

func (c polyphaseConverter) Process(in []float32) ([]float32, error) {
	return c.Polyphase.Process(in), nil
}

func (c polyphaseConverter) Flush() ([]float32, error) {
	return c.Polyphase.Flush(), nil
}
