package bus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/joints"
)

// setupTestPublisher creates a miniredis server and Publisher for testing
func setupTestPublisher(t *testing.T) (*Publisher, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	return NewPublisher(client, "robot", 100), client, mr
}

func telemetry(cycle uint64, events ...control.Event) control.Telemetry {
	return control.Telemetry{
		Cycle:     cycle,
		Timestamp: time.UnixMilli(1_700_000_000_000 + int64(cycle)),
		FallState: "standing_up_front",
		Motion:    "stand_up_front",
		Pose:      joints.Fill(0.25),
		Finished:  map[string]bool{"stand": false, "stand_up_front": true, "stand_up_back": false},
		Events:    events,
	}
}

func TestPublish_WritesOutputs(t *testing.T) {
	t.Parallel()

	pub, client, _ := setupTestPublisher(t)
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, telemetry(7)))

	motion, err := client.HGet(ctx, "robot:motion:outputs", "motion").Result()
	require.NoError(t, err)
	assert.Equal(t, "stand_up_front", motion)

	out, err := pub.Outputs(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, out.Cycle)
	assert.Equal(t, joints.Fill(0.25), out.Pose)
	assert.True(t, out.Finished["stand_up_front"])
	assert.Equal(t, int64(1_700_000_000_007), out.UpdatedAt.UnixMilli())

	// Outputs are overwritten every cycle.
	require.NoError(t, pub.Publish(ctx, telemetry(8)))
	out, err = pub.Outputs(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, out.Cycle)
}

func TestPublish_AppendsEvents(t *testing.T) {
	t.Parallel()

	pub, client, _ := setupTestPublisher(t)
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, telemetry(1, control.Event{Cycle: 1, Type: control.EventStarted, Motion: "stand_up_front", PlaybackID: "a"})))
	require.NoError(t, pub.Publish(ctx, telemetry(2)))
	require.NoError(t, pub.Publish(ctx, telemetry(3, control.Event{Cycle: 3, Type: control.EventAborted, Motion: "stand_up_front", PlaybackID: "a", Side: "exit"})))

	n, err := client.XLen(ctx, "robot:motion:events").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	events, err := pub.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, control.EventStarted, events[0].Type)
	assert.Equal(t, control.EventAborted, events[1].Type)
	assert.Equal(t, "exit", events[1].Side)

	latest, err := pub.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.EqualValues(t, 3, latest[0].Cycle)
}

func TestOutputs_BeforePublish(t *testing.T) {
	t.Parallel()

	pub, _, _ := setupTestPublisher(t)
	_, err := pub.Outputs(context.Background())
	assert.ErrorIs(t, err, ErrNoOutputs)
}

func TestPublish_RedisDown_ReturnsError(t *testing.T) {
	t.Parallel()

	pub, _, mr := setupTestPublisher(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, pub.Publish(ctx, telemetry(1)))
	assert.Error(t, pub.Ping(ctx))
}

func TestPublisher_ImplementsSink(t *testing.T) {
	var _ control.Sink = (*Publisher)(nil)
}
