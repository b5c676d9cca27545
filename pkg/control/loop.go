package control

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-motion/internal/log"
	"github.com/teslashibe/go-motion/pkg/behavior"
	"github.com/teslashibe/go-motion/pkg/condition"
	"github.com/teslashibe/go-motion/pkg/joints"
)

const (
	// errorLogInterval limits how often a failing transport is logged.
	errorLogInterval = 5 * time.Second

	// sinkQueueSize is the telemetry backlog per sink before cycles are dropped.
	sinkQueueSize = 64

	// publishTimeout bounds a single Sink.Publish call.
	publishTimeout = 500 * time.Millisecond
)

var errSinkBehind = errors.New("sink queue full, telemetry dropped")

// SensorReading is one sample of the robot's sensors.
type SensorReading struct {
	AngularVelocity condition.Vector3
	Pitch           float64
	GroundContact   bool

	// Positions is the measured joint pose, valid when HasPositions is set.
	Positions    joints.Joints
	HasPositions bool
}

// SensorSource provides sensor readings once per cycle.
type SensorSource interface {
	Read(ctx context.Context) (SensorReading, error)
}

// JointController receives the commanded pose every cycle.
type JointController interface {
	SetJointPositions(pose joints.Joints) error
}

// Sink receives the telemetry of every cycle. Publish runs on a goroutine
// of its own, off the control cycle.
type Sink interface {
	Publish(ctx context.Context, t Telemetry) error
}

// LoopConfig configures a Loop.
type LoopConfig struct {
	// Period is the target cycle period.
	Period time.Duration

	// GyroFilterCoefficient is the low-pass weight of each gyro sample.
	GyroFilterCoefficient float64

	// FallDetector holds the pitch thresholds.
	FallDetector behavior.FallDetectorConfig

	// StandPose is commanded while Stand is selected.
	StandPose joints.Joints
}

// DefaultLoopConfig returns a 12ms loop with the default fall thresholds.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		Period:                12 * time.Millisecond,
		GyroFilterCoefficient: 0.1,
		FallDetector:          behavior.DefaultFallDetectorConfig(),
	}
}

// Loop runs the control cycle: read sensors, classify the fall state,
// select a motion, run every executor and send the selected pose.
// Tick is not safe for concurrent use; the accessors are.
type Loop struct {
	cfg       LoopConfig
	sensors   SensorSource
	robot     JointController
	executors []*Executor[joints.Joints]
	sinks     []*sinkQueue

	filter   *condition.LowPassFilter
	detector *behavior.FallDetector
	selector *Selector

	finished    MotionFinished
	lastReading SensorReading
	cycle       uint64

	mu       sync.RWMutex
	override behavior.FallState
	last     Telemetry
	hasLast  bool

	sensorErrors errorLimiter
	robotErrors  errorLimiter
	dropErrors   errorLimiter
}

// NewLoop creates a control loop. executors must hold at most one executor
// per motion type; Stand needs none.
func NewLoop(cfg LoopConfig, sensors SensorSource, robot JointController, executors []*Executor[joints.Joints], sinks ...Sink) (*Loop, error) {
	if sensors == nil {
		return nil, errors.New("control: sensor source is required")
	}
	if robot == nil {
		return nil, errors.New("control: joint controller is required")
	}
	if cfg.Period <= 0 {
		return nil, errors.New("control: cycle period must be positive")
	}

	seen := make(map[MotionType]bool, len(executors))
	for _, e := range executors {
		if seen[e.Motion()] {
			return nil, errors.New("control: duplicate executor for " + e.Motion().String())
		}
		seen[e.Motion()] = true
	}

	l := &Loop{
		cfg:       cfg,
		sensors:   sensors,
		robot:     robot,
		executors: executors,
		filter:    condition.NewLowPassFilter(cfg.GyroFilterCoefficient),
		detector:  behavior.NewFallDetector(cfg.FallDetector),
		selector:  NewSelector(),
	}
	for _, s := range sinks {
		l.AddSink(s)
	}
	return l, nil
}

// AddSink registers another telemetry sink. It must be called before Run.
func (l *Loop) AddSink(s Sink) {
	l.sinks = append(l.sinks, &sinkQueue{
		sink:  s,
		queue: make(chan Telemetry, sinkQueueSize),
	})
}

// Run ticks the loop at the configured period until ctx is cancelled. The
// measured time between ticks is the cycle duration handed to the motions.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.Period)
	defer ticker.Stop()
	wait := l.startSinks(ctx)
	defer wait()

	log.Info("control loop started", "period", l.cfg.Period, "executors", len(l.executors))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info("control loop stopped", "cycles", l.cycle)
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			l.Tick(ctx, dt)
		}
	}
}

// Tick runs one control cycle that lasted dt and returns its telemetry.
func (l *Loop) Tick(ctx context.Context, dt time.Duration) Telemetry {
	l.cycle++

	reading, err := l.sensors.Read(ctx)
	if err != nil {
		l.sensorErrors.log("sensor read failed", err)
		reading = l.lastReading
	} else {
		l.lastReading = reading
	}
	gyro := l.filter.Update(reading.AngularVelocity)

	previous := l.selector.Current()
	state := l.detector.Update(reading.Pitch, previous.IsStandUp(), l.finished.Get(previous))
	if override := l.FallStateOverride(); override != nil {
		state = override
	}

	cmd := behavior.Command(state)
	current := l.selector.Select(cmd, l.finished)
	if current != previous {
		log.Info("motion selected", "motion", current.String(), "previous", previous.String(), "fall_state", behavior.FallStateName(state))
	}

	cctx := CycleContext[joints.Joints]{
		LastCycleDuration: dt,
		ConditionInput: condition.Input{
			FilteredAngularVelocity: gyro,
			GroundContact:           reading.GroundContact,
		},
		CurrentMotion:   current,
		MeasuredPose:    reading.Positions,
		HasMeasuredPose: reading.HasPositions,
	}

	var finished MotionFinished
	pose := l.cfg.StandPose
	statuses := make([]Status, 0, len(l.executors))
	var events []Event
	for _, e := range l.executors {
		before := e.Status()
		value := e.Cycle(cctx, &finished)
		if e.Motion() == current {
			pose = value
		}
		after := e.Status()
		statuses = append(statuses, after)
		events = append(events, playbackEvents(before, after, l.finished.Get(e.Motion()), finished.Get(e.Motion()))...)
	}
	l.finished = finished

	for i, ev := range events {
		events[i].Cycle = l.cycle
		log.Info("motion "+string(ev.Type), "motion", ev.Motion, "playback_id", ev.PlaybackID, "frame", ev.Frame)
	}

	if err := l.robot.SetJointPositions(pose); err != nil {
		l.robotErrors.log("set joint positions failed", err)
	}

	t := Telemetry{
		Cycle:         l.cycle,
		Timestamp:     time.Now(),
		CycleDuration: dt,
		FallState:     behavior.FallStateName(state),
		Command:       behavior.CommandName(cmd),
		Motion:        current.String(),
		Pose:          pose,
		Finished:      finished.Map(),
		Executors:     statuses,
		Events:        events,
	}

	for _, q := range l.sinks {
		if !q.offer(t) {
			l.dropErrors.log("publish telemetry skipped", errSinkBehind)
		}
	}

	l.mu.Lock()
	l.last = t
	l.hasLast = true
	l.mu.Unlock()

	return t
}

// startSinks drains every sink queue until ctx is cancelled. The returned
// func waits for the drain goroutines to exit.
func (l *Loop) startSinks(ctx context.Context) (wait func()) {
	var wg sync.WaitGroup
	for _, q := range l.sinks {
		wg.Add(1)
		go func(q *sinkQueue) {
			defer wg.Done()
			q.run(ctx)
		}(q)
	}
	return wg.Wait
}

// Snapshot returns the telemetry of the last cycle.
func (l *Loop) Snapshot() (Telemetry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last, l.hasLast
}

// SetFallStateOverride replaces the detected fall state until cleared with
// nil. It is used to trigger motions in simulation.
func (l *Loop) SetFallStateOverride(state behavior.FallState) {
	l.mu.Lock()
	l.override = state
	l.mu.Unlock()
	if state == nil {
		log.Info("fall state override cleared")
	} else {
		log.Info("fall state override set", "fall_state", behavior.FallStateName(state))
	}
}

// FallStateOverride returns the active override or nil.
func (l *Loop) FallStateOverride() behavior.FallState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.override
}

// playbackEvents compares an executor before and after one cycle.
func playbackEvents(before, after Status, wasFinished, isFinished bool) []Event {
	var events []Event
	if after.Selected && after.PlaybackID != before.PlaybackID {
		events = append(events, Event{
			Type:       EventStarted,
			Motion:     after.Motion,
			PlaybackID: after.PlaybackID,
			Frame:      after.Frame,
		})
	}
	if isFinished && !wasFinished {
		typ := EventFinished
		if after.AbortedAt != "" {
			typ = EventAborted
		}
		events = append(events, Event{
			Type:       typ,
			Motion:     after.Motion,
			PlaybackID: after.PlaybackID,
			Frame:      after.Frame,
			Side:       after.AbortedAt,
		})
	}
	return events
}

// sinkQueue hands telemetry from the control cycle to one sink.
type sinkQueue struct {
	sink    Sink
	queue   chan Telemetry
	dropped atomic.Uint64
	errors  errorLimiter
}

// offer queues t without blocking and reports whether it fit.
func (q *sinkQueue) offer(t Telemetry) bool {
	select {
	case q.queue <- t:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

func (q *sinkQueue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-q.queue:
			pctx, cancel := context.WithTimeout(ctx, publishTimeout)
			err := q.sink.Publish(pctx, t)
			cancel()
			if err != nil {
				q.errors.log("publish telemetry failed", err)
			}
		}
	}
}

// errorLimiter logs at most one error per errorLogInterval and counts the
// rest.
type errorLimiter struct {
	count    uint64
	lastTime time.Time
}

func (e *errorLimiter) log(msg string, err error) {
	e.count++
	if e.lastTime.IsZero() || time.Since(e.lastTime) > errorLogInterval {
		log.Warn(msg, "error", err, "total_errors", e.count)
		e.lastTime = time.Now()
	}
}
