package robot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/teslashibe/go-motion/internal/config"
	"github.com/teslashibe/go-motion/internal/httpc"
	"github.com/teslashibe/go-motion/pkg/condition"
	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/joints"
)

// DefaultHTTPTimeout bounds every request to the robot daemon.
const DefaultHTTPTimeout = 2 * time.Second

// HTTPController drives the robot through its daemon's HTTP API.
type HTTPController struct {
	BaseURL string

	// MoveDuration is sent with every target so the daemon interpolates
	// between consecutive cycles.
	MoveDuration time.Duration

	client *http.Client
}

// NewHTTPController creates a controller for the robot at robotIP.
func NewHTTPController(robotIP string, timeout time.Duration) *HTTPController {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPController{
		BaseURL:      config.RobotAPIURL(robotIP),
		MoveDuration: 12 * time.Millisecond,
		client:       httpc.NewClient(timeout),
	}
}

type setTargetRequest struct {
	TargetJoints joints.Joints `json:"target_joints"`
	Duration     float64       `json:"duration"`
}

// SetJointPositions sends pose as the new joint target.
func (r *HTTPController) SetJointPositions(pose joints.Joints) error {
	payload := setTargetRequest{
		TargetJoints: pose,
		Duration:     r.MoveDuration.Seconds(),
	}
	if err := httpc.PostJSON(context.Background(), r.client, r.BaseURL+"/api/joints/set_target", payload); err != nil {
		return fmt.Errorf("joint target request failed: %w", err)
	}
	return nil
}

type stateResponse struct {
	IMU struct {
		AngularVelocity condition.Vector3 `json:"angular_velocity"`
		Pitch           float64           `json:"pitch"`
	} `json:"imu"`
	GroundContact bool           `json:"ground_contact"`
	Joints        *joints.Joints `json:"joints"`
}

// Read fetches the latest IMU, foot contact and joint readings.
func (r *HTTPController) Read(ctx context.Context) (control.SensorReading, error) {
	var state stateResponse
	if err := httpc.GetJSON(ctx, r.client, r.BaseURL+"/api/state/full", &state); err != nil {
		return control.SensorReading{}, fmt.Errorf("state request failed: %w", err)
	}

	reading := control.SensorReading{
		AngularVelocity: state.IMU.AngularVelocity,
		Pitch:           state.IMU.Pitch,
		GroundContact:   state.GroundContact,
	}
	if state.Joints != nil {
		reading.Positions = *state.Joints
		reading.HasPositions = true
	}
	return reading, nil
}

// GetDaemonStatus returns the robot daemon status.
func (r *HTTPController) GetDaemonStatus(ctx context.Context) (string, error) {
	var status struct {
		State string `json:"state"`
	}
	if err := httpc.GetJSON(ctx, r.client, r.BaseURL+"/api/daemon/status", &status); err != nil {
		return "", fmt.Errorf("daemon status request failed: %w", err)
	}
	return status.State, nil
}
