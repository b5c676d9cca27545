package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/joints"
)

func TestTelemetryMessage(t *testing.T) {
	msg, err := NewTelemetryMessage(control.Telemetry{
		Cycle:  42,
		Motion: "stand_up_back",
		Pose:   joints.Fill(0.5),
	})
	require.NoError(t, err)
	assert.Equal(t, TypeTelemetry, msg.Type)
	assert.NotZero(t, msg.Timestamp)

	data, err := msg.Bytes()
	require.NoError(t, err)

	parsed, err := ParseMessage(data)
	require.NoError(t, err)
	assert.Equal(t, TypeTelemetry, parsed.Type)

	var tel control.Telemetry
	require.NoError(t, parsed.ParseData(&tel))
	assert.EqualValues(t, 42, tel.Cycle)
	assert.Equal(t, "stand_up_back", tel.Motion)
	assert.Equal(t, joints.Fill(0.5), tel.Pose)
}

func TestEventMessage(t *testing.T) {
	msg, err := NewEventMessage(control.Event{Type: control.EventAborted, Motion: "stand_up_front", Side: "entry"})
	require.NoError(t, err)

	var ev control.Event
	require.NoError(t, msg.ParseData(&ev))
	assert.Equal(t, control.EventAborted, ev.Type)
	assert.Equal(t, "entry", ev.Side)
}

func TestFallStateMessage(t *testing.T) {
	msg, err := NewFallStateMessage("fallen_back")
	require.NoError(t, err)

	var data FallStateData
	require.NoError(t, msg.ParseData(&data))
	assert.Equal(t, "fallen_back", data.FallState)
}

func TestPingPong(t *testing.T) {
	assert.Equal(t, TypePing, NewPingMessage().Type)
	assert.Equal(t, TypePong, NewPongMessage().Type)

	var v map[string]any
	assert.NoError(t, NewPingMessage().ParseData(&v))
	assert.Nil(t, v)
}

func TestParseMessage_Invalid(t *testing.T) {
	_, err := ParseMessage([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseMessage([]byte(`{"ts": 1}`))
	assert.Error(t, err)
}
