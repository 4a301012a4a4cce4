package dither

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBitDepth     = errors.New("dither: bit depth must be in [2, 32]")
	ErrUnknownType  = errors.New("dither: unknown dither type")
	ErrUnknownShape = errors.New("dither: unknown noise shaping")
)

// Type selects the probability density of the dither noise.
type Type int

const (
	// None rounds without noise.
	None Type = iota
	// Rectangular adds uniform noise of one LSB peak-to-peak.
	Rectangular
	// Triangular adds the sum of two uniform draws (TPDF), two LSB
	// peak-to-peak. It decorrelates the error from the signal.
	Triangular
)

var typeNames = map[Type]string{
	None:        "none",
	Rectangular: "rectangular",
	Triangular:  "triangular",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("dither(%d)", int(t))
}

// ParseType resolves a name printed by [Type.String]. "tpdf" and "rpdf" are
// accepted as aliases.
func ParseType(name string) (Type, error) {
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "tpdf":
		return Triangular, nil
	case "rpdf":
		return Rectangular, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}
