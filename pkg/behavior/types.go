// Package behavior decides which motion the robot should be running.
package behavior

// Kind is the orientation the robot ended up in after a fall.
type Kind int

const (
	// FacingDown means the robot lies on its front.
	FacingDown Kind = iota

	// FacingUp means the robot lies on its back.
	FacingUp
)

// String returns the orientation as used in logs and telemetry.
func (k Kind) String() string {
	if k == FacingUp {
		return "back"
	}
	return "front"
}

// FallState classifies the robot's physical orientation. It is one of
// Upright, Falling, Fallen or StandingUp.
type FallState interface {
	isFallState()
}

// Upright means the robot is standing.
type Upright struct{}

// Falling means the robot is tipping but has not come to rest.
type Falling struct{}

// Fallen means the robot lies on the ground.
type Fallen struct {
	Kind Kind
}

// StandingUp means a stand-up motion is in progress.
type StandingUp struct {
	Kind Kind
}

func (Upright) isFallState()    {}
func (Falling) isFallState()    {}
func (Fallen) isFallState()     {}
func (StandingUp) isFallState() {}

// FallStateName returns the variant name of a fall state.
func FallStateName(s FallState) string {
	switch st := s.(type) {
	case Upright:
		return "upright"
	case Falling:
		return "falling"
	case Fallen:
		return "fallen_" + st.Kind.String()
	case StandingUp:
		return "standing_up_" + st.Kind.String()
	default:
		return "unknown"
	}
}

// MotionCommand is the motion intent handed to motion selection. It is one
// of Stand or StandUp.
type MotionCommand interface {
	isMotionCommand()
}

// Stand keeps the robot in its standing posture.
type Stand struct{}

// StandUp requests the stand-up motion for Kind.
type StandUp struct {
	Kind Kind
}

func (Stand) isMotionCommand()   {}
func (StandUp) isMotionCommand() {}

// ParseFallState parses a name produced by FallStateName.
func ParseFallState(name string) (FallState, bool) {
	for _, s := range []FallState{
		Upright{},
		Falling{},
		Fallen{Kind: FacingDown},
		Fallen{Kind: FacingUp},
		StandingUp{Kind: FacingDown},
		StandingUp{Kind: FacingUp},
	} {
		if FallStateName(s) == name {
			return s, true
		}
	}
	return nil, false
}

// CommandName returns the name of a motion command.
func CommandName(cmd MotionCommand) string {
	switch c := cmd.(type) {
	case Stand:
		return "stand"
	case StandUp:
		return "stand_up_" + c.Kind.String()
	default:
		return "unknown"
	}
}
