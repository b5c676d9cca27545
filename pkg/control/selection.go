package control

import "github.com/teslashibe/go-motion/pkg/behavior"

// MotionFor maps a motion command to the motion that carries it out.
func MotionFor(cmd behavior.MotionCommand) MotionType {
	switch c := cmd.(type) {
	case behavior.StandUp:
		if c.Kind == behavior.FacingUp {
			return StandUpBack
		}
		return StandUpFront
	default:
		return Stand
	}
}

// Selector chooses the motion for each cycle.
//
// A motion that reported finished while still requested is replaced by
// Stand for one cycle, which resets its executor so the next request starts
// over from the first frame.
type Selector struct {
	current MotionType
}

// NewSelector creates a selector starting in Stand.
func NewSelector() *Selector {
	return &Selector{current: Stand}
}

// Current returns the motion selected in the last cycle.
func (s *Selector) Current() MotionType {
	return s.current
}

// Select picks this cycle's motion from the command and last cycle's
// finished flags.
func (s *Selector) Select(cmd behavior.MotionCommand, lastFinished MotionFinished) MotionType {
	want := MotionFor(cmd)
	if want != Stand && want == s.current && lastFinished.Get(s.current) {
		s.current = Stand
		return s.current
	}
	s.current = want
	return s.current
}
