package condition

import (
	"fmt"
	"strings"
	"time"
)

// Condition type names used in motion files.
const (
	TypeStabilized    = "stabilized"
	TypeDelay         = "delay"
	TypeGroundContact = "ground_contact"
)

// Spec is the serialised form of a condition. Times are in seconds.
type Spec struct {
	Type      string  `json:"type" yaml:"type"`
	Tolerance float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	Duration  float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	Timeout   float64 `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	OnTimeout string  `json:"on_timeout,omitempty" yaml:"on_timeout,omitempty"`
}

// Build turns the spec into an evaluable Condition.
func (s Spec) Build() (Condition, error) {
	if s.Timeout < 0 {
		return nil, fmt.Errorf("%w: timeout %v", ErrInvalidSpec, s.Timeout)
	}
	timeout := seconds(s.Timeout)

	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case TypeStabilized:
		if s.Tolerance <= 0 {
			return nil, fmt.Errorf("%w: stabilized tolerance must be positive", ErrInvalidSpec)
		}
		onTimeout, err := parseOnTimeout(s.OnTimeout)
		if err != nil {
			return nil, err
		}
		return Stabilized{Tolerance: s.Tolerance, Timeout: timeout, OnTimeout: onTimeout}, nil

	case TypeDelay:
		if s.Duration < 0 {
			return nil, fmt.Errorf("%w: delay duration %v", ErrInvalidSpec, s.Duration)
		}
		return Delay{Duration: seconds(s.Duration)}, nil

	case TypeGroundContact:
		return GroundContact{Timeout: timeout}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, s.Type)
	}
}

// BuildOptional builds spec when it is set and returns a nil Condition otherwise.
func BuildOptional(spec *Spec) (Condition, error) {
	if spec == nil {
		return nil, nil
	}
	return spec.Build()
}

func parseOnTimeout(name string) (Response, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "continue":
		return Continue, nil
	case "abort":
		return Abort, nil
	default:
		return Wait, fmt.Errorf("%w: on_timeout %q", ErrInvalidSpec, name)
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
