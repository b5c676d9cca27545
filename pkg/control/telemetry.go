package control

import (
	"time"

	"github.com/teslashibe/go-motion/pkg/joints"
)

// EventType names a playback event.
type EventType string

const (
	EventStarted  EventType = "started"
	EventFinished EventType = "finished"
	EventAborted  EventType = "aborted"
)

// Event marks a change in a motion's playback.
type Event struct {
	Cycle      uint64    `json:"cycle"`
	Type       EventType `json:"type"`
	Motion     string    `json:"motion"`
	PlaybackID string    `json:"playback_id"`
	Frame      int       `json:"frame"`
	Side       string    `json:"side,omitempty"`
}

// Telemetry is the outcome of one control cycle.
type Telemetry struct {
	Cycle         uint64          `json:"cycle"`
	Timestamp     time.Time       `json:"timestamp"`
	CycleDuration time.Duration   `json:"cycle_duration_ns"`
	FallState     string          `json:"fall_state"`
	Command       string          `json:"command"`
	Motion        string          `json:"motion"`
	Pose          joints.Joints   `json:"pose"`
	Finished      map[string]bool `json:"finished"`
	Executors     []Status        `json:"executors"`
	Events        []Event         `json:"events,omitempty"`
}
