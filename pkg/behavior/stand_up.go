package behavior

// StandUpIntent returns a stand-up command while the robot is fallen or
// already standing up, and false otherwise.
func StandUpIntent(state FallState) (MotionCommand, bool) {
	switch s := state.(type) {
	case Fallen:
		return StandUp{Kind: s.Kind}, true
	case StandingUp:
		return StandUp{Kind: s.Kind}, true
	default:
		return nil, false
	}
}

// Command picks this cycle's motion command. Stand-up takes priority over
// the default standing posture.
func Command(state FallState) MotionCommand {
	if cmd, ok := StandUpIntent(state); ok {
		return cmd
	}
	return Stand{}
}
