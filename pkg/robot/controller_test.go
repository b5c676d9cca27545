package robot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-motion/pkg/behavior"
	"github.com/teslashibe/go-motion/pkg/joints"
)

// mockRobot records all commands for testing
type mockRobot struct {
	mu    sync.Mutex
	poses []joints.Joints
	err   error
}

func (m *mockRobot) SetJointPositions(pose joints.Joints) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.poses = append(m.poses, pose)
	return nil
}

func (m *mockRobot) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.poses)
}

func TestDeadZoneController_SkipsSmallChanges(t *testing.T) {
	mock := &mockRobot{}
	ctrl := NewDeadZoneController(mock, DefaultDeadZone)

	require.NoError(t, ctrl.SetJointPositions(joints.Fill(0)))
	require.NoError(t, ctrl.SetJointPositions(joints.Fill(0.001)))
	require.NoError(t, ctrl.SetJointPositions(joints.Fill(0.004)))
	assert.Equal(t, 1, mock.count())

	pose := joints.Fill(0)
	pose.LeftLeg.KneePitch = 0.01
	require.NoError(t, ctrl.SetJointPositions(pose))
	assert.Equal(t, 2, mock.count())

	stats := ctrl.Stats()
	assert.EqualValues(t, 4, stats.Ticks)
	assert.EqualValues(t, 2, stats.Skipped)
	assert.EqualValues(t, 0, stats.Errors)
}

func TestDeadZoneController_RetriesAfterError(t *testing.T) {
	mock := &mockRobot{err: errors.New("daemon busy")}
	ctrl := NewDeadZoneController(mock, DefaultDeadZone)

	assert.Error(t, ctrl.SetJointPositions(joints.Fill(0.2)))
	assert.EqualValues(t, 1, ctrl.Stats().Errors)

	// A failed send does not count as sent, so the same pose goes out again.
	mock.err = nil
	require.NoError(t, ctrl.SetJointPositions(joints.Fill(0.2)))
	assert.Equal(t, 1, mock.count())
}

func TestDeadZoneController_ThreadSafe(t *testing.T) {
	mock := &mockRobot{}
	ctrl := NewDeadZoneController(mock, DefaultDeadZone)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = ctrl.SetJointPositions(joints.Fill(float64(i*50+j) * 0.01))
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 500, ctrl.Stats().Ticks)
}

func TestHTTPController(t *testing.T) {
	var got setTargetRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/joints/set_target":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		case "/api/state/full":
			_, _ = w.Write([]byte(`{
				"imu": {"angular_velocity": {"x": 0.1, "y": 0.2, "z": 0.3}, "pitch": 1.1},
				"ground_contact": true,
				"joints": {"head": {"yaw": 0.5}}
			}`))
		case "/api/daemon/status":
			_, _ = w.Write([]byte(`{"state": "running"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctrl := NewHTTPController("unused", 0)
	ctrl.BaseURL = srv.URL

	pose := joints.Fill(0.25)
	require.NoError(t, ctrl.SetJointPositions(pose))
	assert.Equal(t, pose, got.TargetJoints)
	assert.InDelta(t, 0.012, got.Duration, 1e-9)

	reading, err := ctrl.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.1, reading.Pitch)
	assert.Equal(t, 0.2, reading.AngularVelocity.Y)
	assert.True(t, reading.GroundContact)
	assert.True(t, reading.HasPositions)
	assert.Equal(t, 0.5, reading.Positions.Head.Yaw)

	status, err := ctrl.GetDaemonStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "running", status)
}

func TestHTTPController_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "motors disabled", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctrl := NewHTTPController("unused", 0)
	ctrl.BaseURL = srv.URL

	err := ctrl.SetJointPositions(joints.Joints{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "503"), err.Error())

	_, err = ctrl.Read(context.Background())
	assert.Error(t, err)
}

func TestSim(t *testing.T) {
	upright := joints.Fill(0.1)
	sim := NewSim(upright)

	reading, err := sim.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, reading.Pitch)
	assert.True(t, reading.GroundContact)
	assert.Equal(t, upright, reading.Positions)

	sim.Fall(behavior.FacingUp)
	reading, _ = sim.Read(context.Background())
	assert.Equal(t, -SimFallenPitch, reading.Pitch)

	require.NoError(t, sim.SetJointPositions(joints.Fill(0.5)))
	reading, _ = sim.Read(context.Background())
	assert.Equal(t, -SimFallenPitch, reading.Pitch)
	assert.Equal(t, joints.Fill(0.5), reading.Positions)

	require.NoError(t, sim.SetJointPositions(joints.Fill(0.11)))
	reading, _ = sim.Read(context.Background())
	assert.Equal(t, 0.0, reading.Pitch)
	assert.EqualValues(t, 2, sim.Commands())
}
