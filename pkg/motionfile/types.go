// Package motionfile reads keyframe motion descriptions from JSON or YAML.
//
// A motion file lists the robot's initial positions and a sequence of
// frames. Each frame has optional entry and exit conditions and the
// keyframes to visit in between. Times are given in seconds.
package motionfile

import (
	"time"

	"github.com/teslashibe/go-motion/pkg/condition"
	"github.com/teslashibe/go-motion/pkg/spline"
)

// Keyframe is a target pose reached Duration seconds after the previous one.
type Keyframe[T any] struct {
	Duration  float64 `json:"duration" yaml:"duration"`
	Positions T       `json:"positions" yaml:"positions"`
}

// Frame is one conditioned phase of a motion.
type Frame[T any] struct {
	EntryCondition *condition.Spec `json:"entry_condition,omitempty" yaml:"entry_condition,omitempty"`
	Keyframes      []Keyframe[T]   `json:"keyframes" yaml:"keyframes"`
	ExitCondition  *condition.Spec `json:"exit_condition,omitempty" yaml:"exit_condition,omitempty"`
}

// MotionFile is the parsed form of a motion description.
type MotionFile[T any] struct {
	// Name is derived from the file name when loaded from disk or the embedded set.
	Name string `json:"-" yaml:"-"`

	Description       string      `json:"description,omitempty" yaml:"description,omitempty"`
	InterpolationMode spline.Mode `json:"interpolation_mode" yaml:"interpolation_mode"`
	InitialPositions  T           `json:"initial_positions" yaml:"initial_positions"`
	Motion            []Frame[T]  `json:"motion" yaml:"motion"`
}

// SplineKeyframes converts the frame's keyframes to spline keyframes.
func (f Frame[T]) SplineKeyframes() []spline.Keyframe[T] {
	out := make([]spline.Keyframe[T], len(f.Keyframes))
	for i, kf := range f.Keyframes {
		out[i] = spline.Keyframe[T]{
			Duration:  time.Duration(kf.Duration * float64(time.Second)),
			Positions: kf.Positions,
		}
	}
	return out
}

// Duration is the summed keyframe time of every frame, ignoring conditions.
func (m *MotionFile[T]) Duration() time.Duration {
	var total float64
	for _, f := range m.Motion {
		for _, kf := range f.Keyframes {
			total += kf.Duration
		}
	}
	return time.Duration(total * float64(time.Second))
}

// DefaultStabilizedTolerance fills the tolerance of every stabilized
// condition that leaves it unset.
func (m *MotionFile[T]) DefaultStabilizedTolerance(tolerance float64) {
	for i := range m.Motion {
		for _, spec := range []*condition.Spec{m.Motion[i].EntryCondition, m.Motion[i].ExitCondition} {
			if spec != nil && spec.Type == condition.TypeStabilized && spec.Tolerance == 0 {
				spec.Tolerance = tolerance
			}
		}
	}
}
