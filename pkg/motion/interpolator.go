// Package motion plays back multi-phase keyframe motions one control cycle
// at a time.
//
// A motion is an ordered list of ConditionedSpline phases. The Interpolator
// walks a cursor through them: it waits at each phase's entry condition,
// follows the phase's spline, then waits at its exit condition before moving
// on. Every call to AdvanceBy performs exactly one transition, and Value is
// defined in every state, so the commanded pose never jumps at a phase
// boundary and holds still once the motion has finished or aborted.
package motion

import (
	"fmt"
	"time"

	"github.com/teslashibe/go-motion/pkg/condition"
	"github.com/teslashibe/go-motion/pkg/motionfile"
	"github.com/teslashibe/go-motion/pkg/spline"
)

// ConditionedSpline is one phase of a motion. A nil condition always continues.
type ConditionedSpline[T spline.Interpolate[T]] struct {
	EntryCondition condition.Condition
	Spline         *spline.TimedSpline[T]
	ExitCondition  condition.Condition
}

// Interpolator is the playback state machine for one motion. It is not safe
// for concurrent use; it is owned by a single control loop.
type Interpolator[T spline.Interpolate[T]] struct {
	frames []ConditionedSpline[T]
	state  State

	// start is the first frame's authored start pose.
	start T
}

// New creates an interpolator positioned at the entry of the first frame.
func New[T spline.Interpolate[T]](frames []ConditionedSpline[T]) (*Interpolator[T], error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	for i, f := range frames {
		if f.Spline == nil {
			return nil, fmt.Errorf("frame %d: spline is nil", i)
		}
	}
	return &Interpolator[T]{
		frames: frames,
		state:  CheckEntry{},
		start:  frames[0].Spline.StartPosition(),
	}, nil
}

// FromMotionFile builds the phases of a parsed motion file. The first phase
// starts at the file's initial positions; every later phase starts at the
// last keyframe of the phase before it.
func FromMotionFile[T spline.Interpolate[T]](mf *motionfile.MotionFile[T]) (*Interpolator[T], error) {
	if mf == nil || len(mf.Motion) == 0 {
		return nil, ErrNoFrames
	}

	frames := make([]ConditionedSpline[T], 0, len(mf.Motion))
	start := mf.InitialPositions
	for i, frame := range mf.Motion {
		s, err := spline.New(start, frame.SplineKeyframes(), mf.InterpolationMode)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		entry, err := condition.BuildOptional(frame.EntryCondition)
		if err != nil {
			return nil, fmt.Errorf("frame %d entry condition: %w", i, err)
		}
		exit, err := condition.BuildOptional(frame.ExitCondition)
		if err != nil {
			return nil, fmt.Errorf("frame %d exit condition: %w", i, err)
		}

		frames = append(frames, ConditionedSpline[T]{
			EntryCondition: entry,
			Spline:         s,
			ExitCondition:  exit,
		})
		start = s.EndPosition()
	}

	return New(frames)
}

// AdvanceBy moves the cursor by one transition. step is the duration of the
// last control cycle; negative steps count as zero.
func (m *Interpolator[T]) AdvanceBy(step time.Duration, input condition.Input) {
	if step < 0 {
		step = 0
	}

	switch s := m.state.(type) {
	case CheckEntry:
		switch evaluate(m.frames[s.Frame].EntryCondition, input, s.Elapsed) {
		case condition.Abort:
			m.state = Aborted{Side: Entry, Frame: s.Frame}
		case condition.Wait:
			m.state = CheckEntry{Frame: s.Frame, Elapsed: s.Elapsed + step}
		default:
			m.state = Interpolating{Frame: s.Frame}
		}

	case Interpolating:
		elapsed := s.Elapsed + step
		if elapsed >= m.frames[s.Frame].Spline.TotalDuration() {
			m.state = CheckExit{Frame: s.Frame}
		} else {
			m.state = Interpolating{Frame: s.Frame, Elapsed: elapsed}
		}

	case CheckExit:
		switch evaluate(m.frames[s.Frame].ExitCondition, input, s.Elapsed) {
		case condition.Abort:
			m.state = Aborted{Side: Exit, Frame: s.Frame}
		case condition.Wait:
			m.state = CheckExit{Frame: s.Frame, Elapsed: s.Elapsed + step}
		default:
			if s.Frame < len(m.frames)-1 {
				m.state = CheckEntry{Frame: s.Frame + 1}
			} else {
				m.state = Finished{}
			}
		}

	case Finished, Aborted:
		// Terminal until Reset.
	}
}

// Value returns the commanded pose for the current state.
func (m *Interpolator[T]) Value() T {
	switch s := m.state.(type) {
	case CheckEntry:
		return m.frames[s.Frame].Spline.StartPosition()
	case Interpolating:
		return m.frames[s.Frame].Spline.ValueAt(s.Elapsed)
	case CheckExit:
		return m.frames[s.Frame].Spline.EndPosition()
	case Aborted:
		if s.Side == Entry {
			return m.frames[s.Frame].Spline.StartPosition()
		}
		return m.frames[s.Frame].Spline.EndPosition()
	default:
		return m.frames[len(m.frames)-1].Spline.EndPosition()
	}
}

// IsFinished reports whether the motion completed or aborted.
func (m *Interpolator[T]) IsFinished() bool {
	switch m.state.(type) {
	case Finished, Aborted:
		return true
	default:
		return false
	}
}

// Reset moves the cursor back to the entry of the first frame and drops
// any seeded start pose.
func (m *Interpolator[T]) Reset() {
	m.state = CheckEntry{}
	m.frames[0].Spline.SetStartPosition(m.start)
}

// SeedStartPose replaces the first frame's start pose so playback begins
// from where the robot actually is. It only applies while the cursor waits
// at the entry of the first frame and reports whether it did.
func (m *Interpolator[T]) SeedStartPose(pose T) bool {
	s, ok := m.state.(CheckEntry)
	if !ok || s.Frame != 0 {
		return false
	}
	m.frames[0].Spline.SetStartPosition(pose)
	return true
}

// ResetTo resets playback and seeds the first frame with pose.
func (m *Interpolator[T]) ResetTo(pose T) {
	m.Reset()
	m.frames[0].Spline.SetStartPosition(pose)
}

// State returns the current cursor.
func (m *Interpolator[T]) State() State {
	return m.state
}

// Frames returns the number of phases.
func (m *Interpolator[T]) Frames() int {
	return len(m.frames)
}
