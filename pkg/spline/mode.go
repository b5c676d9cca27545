package spline

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how a TimedSpline moves between two keyframes.
type Mode int

const (
	// Linear moves at constant speed between keyframes.
	Linear Mode = iota

	// Cosine eases in and out of every keyframe.
	Cosine

	// Step holds the previous keyframe until the next one arrives.
	Step
)

// String returns the serialised mode name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Cosine:
		return "cosine"
	case Step:
		return "step"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as written in motion files.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear, nil
	case "cosine":
		return Cosine, nil
	case "step":
		return Step, nil
	default:
		return Linear, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ease maps a linear segment fraction onto the mode's curve.
func (m Mode) ease(fraction float64) float64 {
	switch m {
	case Cosine:
		return (1 - math.Cos(math.Pi*fraction)) / 2
	case Step:
		return 0
	default:
		return fraction
	}
}
