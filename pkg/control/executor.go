package control

import (
	"github.com/google/uuid"

	"github.com/teslashibe/go-motion/pkg/motion"
	"github.com/teslashibe/go-motion/pkg/spline"
)

// Executor runs one motion inside the control cycle.
type Executor[T spline.Interpolate[T]] struct {
	motion       MotionType
	interpolator *motion.Interpolator[T]

	selected   bool
	playbackID uuid.UUID
}

// NewExecutor wraps an interpolator for the given motion.
func NewExecutor[T spline.Interpolate[T]](m MotionType, interpolator *motion.Interpolator[T]) *Executor[T] {
	return &Executor[T]{
		motion:       m,
		interpolator: interpolator,
	}
}

// Motion returns the motion this executor runs.
func (e *Executor[T]) Motion() MotionType {
	return e.motion
}

// Cycle runs one control cycle and returns the commanded pose. The
// motion's finished flag is cleared first and set again only when the
// motion is selected and has finished or aborted.
func (e *Executor[T]) Cycle(ctx CycleContext[T], finished *MotionFinished) T {
	finished.Set(e.motion, false)

	if ctx.CurrentMotion != e.motion {
		e.interpolator.Reset()
		e.selected = false
		return e.interpolator.Value()
	}

	if !e.selected {
		// First selected cycle: the cursor sits at the first frame's entry.
		e.selected = true
		e.playbackID = uuid.New()
		if ctx.HasMeasuredPose {
			e.interpolator.ResetTo(ctx.MeasuredPose)
		}
	}

	e.interpolator.AdvanceBy(ctx.LastCycleDuration, ctx.ConditionInput)
	if e.interpolator.IsFinished() {
		finished.Set(e.motion, true)
	}
	return e.interpolator.Value()
}

// Status describes the executor for telemetry.
func (e *Executor[T]) Status() Status {
	state := e.interpolator.State()
	st := Status{
		Motion:   e.motion.String(),
		Selected: e.selected,
		State:    motion.StateName(state),
		Frame:    motion.FrameOf(state),
		Frames:   e.interpolator.Frames(),
	}
	if e.selected {
		st.PlaybackID = e.playbackID.String()
	}
	if a, ok := state.(motion.Aborted); ok {
		st.AbortedAt = a.Side.String()
	}
	return st
}

// Status is a snapshot of one executor.
type Status struct {
	Motion     string `json:"motion"`
	Selected   bool   `json:"selected"`
	PlaybackID string `json:"playback_id,omitempty"`
	State      string `json:"state"`
	Frame      int    `json:"frame"`
	Frames     int    `json:"frames"`
	AbortedAt  string `json:"aborted_at,omitempty"`
}
