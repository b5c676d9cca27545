// Package bus publishes control loop outputs to Redis.
//
// Every cycle overwrites a hash holding the latest outputs, so other
// processes can poll the commanded pose and the per-motion finished flags.
// Playback events are appended to a capped stream.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/joints"
)

// DefaultStreamLen bounds the events stream (approximate trimming).
const DefaultStreamLen = 1000

// ErrNoOutputs is returned by Outputs before the first cycle was published.
var ErrNoOutputs = errors.New("no outputs published yet")

// Publisher writes telemetry to Redis. It implements control.Sink.
type Publisher struct {
	client *redis.Client
	prefix string
	maxLen int64
}

// NewPublisher creates a publisher writing under keys starting with prefix.
func NewPublisher(client *redis.Client, prefix string, maxLen int64) *Publisher {
	if maxLen <= 0 {
		maxLen = DefaultStreamLen
	}
	return &Publisher{
		client: client,
		prefix: prefix,
		maxLen: maxLen,
	}
}

// OutputsKey is the hash holding the latest cycle outputs.
func (p *Publisher) OutputsKey() string {
	return p.prefix + ":motion:outputs"
}

// EventsStream is the stream holding playback events.
func (p *Publisher) EventsStream() string {
	return p.prefix + ":motion:events"
}

// Publish writes one cycle's outputs and events in a single round trip.
func (p *Publisher) Publish(ctx context.Context, t control.Telemetry) error {
	pose, err := json.Marshal(t.Pose)
	if err != nil {
		return fmt.Errorf("failed to marshal pose: %w", err)
	}
	finished, err := json.Marshal(t.Finished)
	if err != nil {
		return fmt.Errorf("failed to marshal finished flags: %w", err)
	}

	pipe := p.client.TxPipeline()
	pipe.HSet(ctx, p.OutputsKey(),
		"cycle", t.Cycle,
		"updated_at", t.Timestamp.UnixMilli(),
		"fall_state", t.FallState,
		"motion", t.Motion,
		"pose", pose,
		"finished", finished,
	)

	for _, ev := range t.Events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.EventsStream(),
			MaxLen: p.maxLen,
			Approx: true,
			Values: map[string]interface{}{
				"type": string(ev.Type),
				"data": data,
			},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish cycle %d: %w", t.Cycle, err)
	}
	return nil
}

// Outputs is the decoded content of the outputs hash.
type Outputs struct {
	Cycle     uint64          `json:"cycle"`
	UpdatedAt time.Time       `json:"updated_at"`
	FallState string          `json:"fall_state"`
	Motion    string          `json:"motion"`
	Pose      joints.Joints   `json:"pose"`
	Finished  map[string]bool `json:"finished"`
}

// Outputs reads the latest published outputs.
func (p *Publisher) Outputs(ctx context.Context) (Outputs, error) {
	fields, err := p.client.HGetAll(ctx, p.OutputsKey()).Result()
	if err != nil {
		return Outputs{}, fmt.Errorf("failed to read %s: %w", p.OutputsKey(), err)
	}
	if len(fields) == 0 {
		return Outputs{}, ErrNoOutputs
	}

	out := Outputs{
		FallState: fields["fall_state"],
		Motion:    fields["motion"],
	}
	if out.Cycle, err = strconv.ParseUint(fields["cycle"], 10, 64); err != nil {
		return Outputs{}, fmt.Errorf("invalid cycle field: %w", err)
	}
	ms, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return Outputs{}, fmt.Errorf("invalid updated_at field: %w", err)
	}
	out.UpdatedAt = time.UnixMilli(ms)
	if err := json.Unmarshal([]byte(fields["pose"]), &out.Pose); err != nil {
		return Outputs{}, fmt.Errorf("invalid pose field: %w", err)
	}
	if err := json.Unmarshal([]byte(fields["finished"]), &out.Finished); err != nil {
		return Outputs{}, fmt.Errorf("invalid finished field: %w", err)
	}
	return out, nil
}

// Recent returns up to n of the latest playback events, oldest first.
func (p *Publisher) Recent(ctx context.Context, n int) ([]control.Event, error) {
	messages, err := p.client.XRevRangeN(ctx, p.EventsStream(), "+", "-", int64(n)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.EventsStream(), err)
	}

	events := make([]control.Event, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		data, ok := messages[i].Values["data"].(string)
		if !ok {
			continue
		}
		var ev control.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return nil, fmt.Errorf("invalid event %s: %w", messages[i].ID, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Ping checks the connection.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
