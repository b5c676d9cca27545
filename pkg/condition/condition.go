// Package condition gates motion phases on sensor state.
//
// A Condition looks at the current Input and the time spent waiting in the
// current phase and answers Continue, Wait or Abort. Conditions are built
// from a serialised Spec when a motion file is loaded.
package condition

import (
	"math"
	"time"
)

// Response is the outcome of evaluating a condition.
type Response int

const (
	// Continue lets the motion proceed.
	Continue Response = iota

	// Wait holds the motion at its current boundary.
	Wait

	// Abort ends the motion at its current boundary.
	Abort
)

// String returns a human-readable response name.
func (r Response) String() string {
	switch r {
	case Continue:
		return "continue"
	case Wait:
		return "wait"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Vector3 is an x/y/z triple in the robot frame.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Norm returns the Euclidean length.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Input is the per-cycle sensor snapshot conditions are evaluated against.
type Input struct {
	// FilteredAngularVelocity is the low-pass filtered gyroscope reading in rad/s.
	FilteredAngularVelocity Vector3 `json:"filtered_angular_velocity"`

	// GroundContact reports whether the feet carry load.
	GroundContact bool `json:"ground_contact"`
}

// Condition decides whether a motion may enter or leave a phase.
type Condition interface {
	Evaluate(input Input, elapsed time.Duration) Response
}

// Stabilized continues once the filtered angular velocity settles below
// Tolerance. With a positive Timeout, it answers OnTimeout once that much
// time has been spent waiting.
type Stabilized struct {
	Tolerance float64
	Timeout   time.Duration
	OnTimeout Response
}

// Evaluate implements Condition.
func (c Stabilized) Evaluate(input Input, elapsed time.Duration) Response {
	if input.FilteredAngularVelocity.Norm() < c.Tolerance {
		return Continue
	}
	if c.Timeout > 0 && elapsed >= c.Timeout {
		return c.OnTimeout
	}
	return Wait
}

// Delay waits for a fixed time before continuing.
type Delay struct {
	Duration time.Duration
}

// Evaluate implements Condition.
func (c Delay) Evaluate(_ Input, elapsed time.Duration) Response {
	if elapsed >= c.Duration {
		return Continue
	}
	return Wait
}

// GroundContact continues while the feet are loaded. With a positive
// Timeout it aborts if contact is not regained in time.
type GroundContact struct {
	Timeout time.Duration
}

// Evaluate implements Condition.
func (c GroundContact) Evaluate(input Input, elapsed time.Duration) Response {
	if input.GroundContact {
		return Continue
	}
	if c.Timeout > 0 && elapsed >= c.Timeout {
		return Abort
	}
	return Wait
}
