// Package robot provides interfaces and implementations for driving the
// robot's joints.
//
// The interfaces are small so consumers depend only on what they use. The
// control loop needs a JointController and a sensor source; the CLI also
// queries daemon status.
package robot

import (
	"context"

	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/joints"
)

// JointController sends a full joint pose to the robot.
type JointController interface {
	SetJointPositions(pose joints.Joints) error
}

// StatusController provides robot status queries.
type StatusController interface {
	GetDaemonStatus(ctx context.Context) (string, error)
}

// SensorSource reads the robot's sensors once per control cycle.
type SensorSource interface {
	Read(ctx context.Context) (control.SensorReading, error)
}

// Controller is the composite interface for a full robot connection.
type Controller interface {
	JointController
	StatusController
	SensorSource
}

var (
	_ Controller              = (*HTTPController)(nil)
	_ Controller              = (*Sim)(nil)
	_ control.JointController = (*DeadZoneController)(nil)
)
