package resample

import (
	"fmt"
	"strings"
)

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

var qualityNames = [...]string{"fast", "balanced", "best"}

// String returns the lower-case name of q.
func (q Quality) String() string {
	if q >= 0 && int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return fmt.Sprintf("quality(%d)", int(q))
}

// ParseQuality resolves a quality name as printed by [Quality.String].
func ParseQuality(name string) (Quality, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range qualityNames {
		if n == name {
			return Quality(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownQuality, name)
}

// Profile exposes polyphase filter parameters for each quality mode.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}
