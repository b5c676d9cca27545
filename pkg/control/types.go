// Package control runs motions once per control cycle.
//
// An Executor bridges one named motion into the cycle: it advances the
// motion while it is the selected one and resets it otherwise. The Loop
// drives all executors from sensor readings, fall detection and motion
// selection, and sends the selected pose to the robot.
package control

import (
	"time"

	"github.com/teslashibe/go-motion/pkg/condition"
)

// MotionType names a motion the framework can select.
type MotionType int

const (
	// Stand holds the standing posture.
	Stand MotionType = iota

	// StandUpFront gets up from lying on the front.
	StandUpFront

	// StandUpBack gets up from lying on the back.
	StandUpBack

	numMotionTypes
)

// MotionTypes lists every motion type in index order.
func MotionTypes() []MotionType {
	return []MotionType{Stand, StandUpFront, StandUpBack}
}

// String returns the motion name as used in motion files and telemetry.
func (m MotionType) String() string {
	switch m {
	case Stand:
		return "stand"
	case StandUpFront:
		return "stand_up_front"
	case StandUpBack:
		return "stand_up_back"
	default:
		return "unknown"
	}
}

// ParseMotionType parses a motion name.
func ParseMotionType(name string) (MotionType, bool) {
	for _, m := range MotionTypes() {
		if m.String() == name {
			return m, true
		}
	}
	return Stand, false
}

// IsStandUp reports whether m is one of the stand-up motions.
func (m MotionType) IsStandUp() bool {
	return m == StandUpFront || m == StandUpBack
}

// MotionFinished holds one finished flag per motion for the current cycle.
type MotionFinished [numMotionTypes]bool

// Get returns the flag for m.
func (f MotionFinished) Get(m MotionType) bool {
	if m < 0 || m >= numMotionTypes {
		return false
	}
	return f[m]
}

// Set writes the flag for m.
func (f *MotionFinished) Set(m MotionType, finished bool) {
	if m < 0 || m >= numMotionTypes {
		return
	}
	f[m] = finished
}

// Map returns the flags keyed by motion name.
func (f MotionFinished) Map() map[string]bool {
	out := make(map[string]bool, numMotionTypes)
	for _, m := range MotionTypes() {
		out[m.String()] = f[m]
	}
	return out
}

// CycleContext is everything an executor reads in one cycle.
type CycleContext[T any] struct {
	// LastCycleDuration is the time since the previous cycle.
	LastCycleDuration time.Duration

	// ConditionInput is this cycle's sensor snapshot for condition evaluation.
	ConditionInput condition.Input

	// CurrentMotion is the motion selected for this cycle.
	CurrentMotion MotionType

	// MeasuredPose is the robot's current pose. When HasMeasuredPose is set
	// it seeds a motion's first frame on the cycle the motion gets selected.
	MeasuredPose    T
	HasMeasuredPose bool
}
