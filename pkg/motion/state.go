package motion

import (
	"fmt"
	"time"
)

// Side names the phase boundary at which a motion was aborted.
type Side int

const (
	// Entry is the boundary before a phase's spline.
	Entry Side = iota

	// Exit is the boundary after a phase's spline.
	Exit
)

// String returns a human-readable side name.
func (s Side) String() string {
	if s == Exit {
		return "exit"
	}
	return "entry"
}

// State is the playback cursor. It is one of CheckEntry, Interpolating,
// CheckExit, Finished or Aborted.
type State interface {
	fmt.Stringer
	isState()
}

// CheckEntry waits for Frame's entry condition. Elapsed is the time spent waiting.
type CheckEntry struct {
	Frame   int
	Elapsed time.Duration
}

// Interpolating follows Frame's spline, Elapsed into it.
type Interpolating struct {
	Frame   int
	Elapsed time.Duration
}

// CheckExit waits for Frame's exit condition. Elapsed is the time spent waiting.
type CheckExit struct {
	Frame   int
	Elapsed time.Duration
}

// Finished is reached after the last frame's exit condition passes.
type Finished struct{}

// Aborted is reached when a condition answered Abort at Frame's Side.
type Aborted struct {
	Side  Side
	Frame int
}

func (CheckEntry) isState()    {}
func (Interpolating) isState() {}
func (CheckExit) isState()     {}
func (Finished) isState()      {}
func (Aborted) isState()       {}

func (s CheckEntry) String() string {
	return fmt.Sprintf("check_entry(frame=%d, elapsed=%v)", s.Frame, s.Elapsed)
}

func (s Interpolating) String() string {
	return fmt.Sprintf("interpolating(frame=%d, elapsed=%v)", s.Frame, s.Elapsed)
}

func (s CheckExit) String() string {
	return fmt.Sprintf("check_exit(frame=%d, elapsed=%v)", s.Frame, s.Elapsed)
}

func (Finished) String() string {
	return "finished"
}

func (s Aborted) String() string {
	return fmt.Sprintf("aborted(%s, frame=%d)", s.Side, s.Frame)
}

// StateName returns the bare variant name of a state, for telemetry.
func StateName(s State) string {
	switch s.(type) {
	case CheckEntry:
		return "check_entry"
	case Interpolating:
		return "interpolating"
	case CheckExit:
		return "check_exit"
	case Finished:
		return "finished"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// FrameOf returns the frame index a state refers to, or -1 for Finished.
func FrameOf(s State) int {
	switch st := s.(type) {
	case CheckEntry:
		return st.Frame
	case Interpolating:
		return st.Frame
	case CheckExit:
		return st.Frame
	case Aborted:
		return st.Frame
	default:
		return -1
	}
}
