package robot

import (
	"context"
	"sync"

	"github.com/teslashibe/go-motion/pkg/behavior"
	"github.com/teslashibe/go-motion/pkg/condition"
	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/joints"
)

// SimFallenPitch is the pitch magnitude a simulated fall leaves the robot at.
const SimFallenPitch = 1.4

// Sim is an in-memory robot. Commanded poses are applied instantly, and the
// robot counts as upright again once a commanded pose comes within
// Tolerance of UprightPose.
type Sim struct {
	UprightPose joints.Joints
	Tolerance   float64

	mu            sync.Mutex
	pose          joints.Joints
	pitch         float64
	gyro          condition.Vector3
	groundContact bool
	commands      uint64
}

// NewSim creates an upright simulated robot standing in uprightPose.
func NewSim(uprightPose joints.Joints) *Sim {
	return &Sim{
		UprightPose:   uprightPose,
		Tolerance:     0.02,
		pose:          uprightPose,
		groundContact: true,
	}
}

// SetJointPositions applies pose.
func (s *Sim) SetJointPositions(pose joints.Joints) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pose = pose
	s.commands++
	if s.pitch != 0 && pose.MaxAbsDiff(s.UprightPose) <= s.Tolerance {
		s.pitch = 0
	}
	return nil
}

// Read implements control.SensorSource.
func (s *Sim) Read(context.Context) (control.SensorReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return control.SensorReading{
		AngularVelocity: s.gyro,
		Pitch:           s.pitch,
		GroundContact:   s.groundContact,
		Positions:       s.pose,
		HasPositions:    true,
	}, nil
}

// GetDaemonStatus always reports a running daemon.
func (s *Sim) GetDaemonStatus(context.Context) (string, error) {
	return "simulated", nil
}

// Fall tips the robot onto its front or back.
func (s *Sim) Fall(kind behavior.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == behavior.FacingUp {
		s.pitch = -SimFallenPitch
	} else {
		s.pitch = SimFallenPitch
	}
}

// SetPitch sets the torso pitch in radians.
func (s *Sim) SetPitch(pitch float64) {
	s.mu.Lock()
	s.pitch = pitch
	s.mu.Unlock()
}

// SetAngularVelocity sets the raw gyroscope reading.
func (s *Sim) SetAngularVelocity(v condition.Vector3) {
	s.mu.Lock()
	s.gyro = v
	s.mu.Unlock()
}

// SetGroundContact sets whether the feet are loaded.
func (s *Sim) SetGroundContact(contact bool) {
	s.mu.Lock()
	s.groundContact = contact
	s.mu.Unlock()
}

// Pose returns the last applied pose.
func (s *Sim) Pose() joints.Joints {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pose
}

// Commands returns how many poses have been applied.
func (s *Sim) Commands() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands
}
