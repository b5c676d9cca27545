// Package protocol defines the websocket messages streamed by the dashboard.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-motion/pkg/control"
)

// MessageType identifies the type of websocket message
type MessageType string

const (
	// Server → client
	TypeTelemetry MessageType = "telemetry"  // One control cycle
	TypeEvent     MessageType = "event"      // Playback started, finished or aborted
	TypeFallState MessageType = "fall_state" // Fall state override changed

	// Bidirectional
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

// Message is the base wrapper for all websocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into v.
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// FallStateData announces a change of the fall state override. An empty
// FallState means the override was cleared.
type FallStateData struct {
	FallState string `json:"fall_state"`
}

// NewTelemetryMessage wraps one cycle's telemetry.
func NewTelemetryMessage(t control.Telemetry) (*Message, error) {
	return NewMessage(TypeTelemetry, t)
}

// NewEventMessage wraps a playback event.
func NewEventMessage(ev control.Event) (*Message, error) {
	return NewMessage(TypeEvent, ev)
}

// NewFallStateMessage announces a fall state override.
func NewFallStateMessage(state string) (*Message, error) {
	return NewMessage(TypeFallState, FallStateData{FallState: state})
}

// NewPingMessage creates a ping.
func NewPingMessage() *Message {
	return &Message{Type: TypePing, Timestamp: time.Now().UnixMilli()}
}

// NewPongMessage answers a ping.
func NewPongMessage() *Message {
	return &Message{Type: TypePong, Timestamp: time.Now().UnixMilli()}
}
