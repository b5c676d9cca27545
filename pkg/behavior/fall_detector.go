package behavior

import "math"

// FallDetectorConfig holds the pitch thresholds in radians.
type FallDetectorConfig struct {
	// FallingPitch is the tilt at which the robot counts as falling.
	FallingPitch float64

	// FallenPitch is the tilt at which the robot counts as lying down.
	FallenPitch float64
}

// DefaultFallDetectorConfig returns thresholds suited to a small humanoid.
func DefaultFallDetectorConfig() FallDetectorConfig {
	return FallDetectorConfig{
		FallingPitch: 0.5,
		FallenPitch:  1.0,
	}
}

// FallDetector classifies the fall state from the torso pitch and the
// progress of the stand-up motion. Positive pitch leans forward.
type FallDetector struct {
	cfg   FallDetectorConfig
	state FallState
}

// NewFallDetector creates a detector that starts out upright.
func NewFallDetector(cfg FallDetectorConfig) *FallDetector {
	return &FallDetector{cfg: cfg, state: Upright{}}
}

// State returns the last classification.
func (d *FallDetector) State() FallState {
	return d.state
}

// Update classifies one cycle. standUpActive reports that a stand-up motion
// was selected last cycle; standUpFinished that it completed or aborted.
func (d *FallDetector) Update(pitch float64, standUpActive, standUpFinished bool) FallState {
	switch s := d.state.(type) {
	case StandingUp:
		if standUpActive && !standUpFinished {
			return s
		}
	case Fallen:
		if standUpActive && !standUpFinished {
			d.state = StandingUp{Kind: s.Kind}
			return d.state
		}
	}

	d.state = d.classify(pitch)
	return d.state
}

func (d *FallDetector) classify(pitch float64) FallState {
	tilt := math.Abs(pitch)
	switch {
	case tilt >= d.cfg.FallenPitch:
		if pitch > 0 {
			return Fallen{Kind: FacingDown}
		}
		return Fallen{Kind: FacingUp}
	case tilt >= d.cfg.FallingPitch:
		return Falling{}
	default:
		return Upright{}
	}
}
