package robot

import (
	"sync"
	"time"

	"github.com/teslashibe/go-motion/internal/log"
	"github.com/teslashibe/go-motion/pkg/joints"
)

// DefaultDeadZone is the joint change in radians below which a new target
// is not sent (~0.3 degrees).
const DefaultDeadZone = 0.005

// heartbeatEvery is the number of cycles between statistics logs.
const heartbeatEvery = 500

// DeadZoneController forwards poses to a JointController, skipping those
// that moved no joint by at least the dead zone since the last successful
// send. This keeps an idle robot from being flooded with identical targets.
type DeadZoneController struct {
	robot    JointController
	deadZone float64

	mu       sync.Mutex
	lastSent joints.Joints
	hasSent  bool

	tickCount     uint64
	skippedTicks  uint64
	errorCount    uint64
	lastErrorTime time.Time
}

// NewDeadZoneController wraps robot with the given dead zone in radians.
func NewDeadZoneController(robot JointController, deadZone float64) *DeadZoneController {
	return &DeadZoneController{
		robot:    robot,
		deadZone: deadZone,
	}
}

// SetJointPositions sends pose unless it is within the dead zone of the
// last sent pose.
func (c *DeadZoneController) SetJointPositions(pose joints.Joints) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tickCount++
	if c.tickCount%heartbeatEvery == 0 {
		log.Debug("dead zone controller", "ticks", c.tickCount, "skipped", c.skippedTicks, "errors", c.errorCount)
	}

	if c.hasSent && pose.MaxAbsDiff(c.lastSent) < c.deadZone {
		c.skippedTicks++
		return nil
	}

	if err := c.robot.SetJointPositions(pose); err != nil {
		c.errorCount++
		c.lastErrorTime = time.Now()
		return err
	}

	c.lastSent = pose
	c.hasSent = true
	return nil
}

// Stats is a snapshot of the controller's counters.
type Stats struct {
	Ticks         uint64    `json:"ticks"`
	Skipped       uint64    `json:"skipped"`
	Errors        uint64    `json:"errors"`
	LastErrorTime time.Time `json:"last_error_time,omitzero"`
}

// Stats returns the controller's counters.
func (c *DeadZoneController) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Ticks:         c.tickCount,
		Skipped:       c.skippedTicks,
		Errors:        c.errorCount,
		LastErrorTime: c.lastErrorTime,
	}
}
