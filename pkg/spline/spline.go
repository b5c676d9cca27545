// Package spline provides timed keyframe curves over any pose type that can
// interpolate linearly between two of its values.
package spline

import (
	"fmt"
	"sort"
	"time"
)

// Interpolate is satisfied by pose types that can blend towards another
// value. fraction is in [0, 1]; 0 returns the receiver, 1 returns to.
type Interpolate[T any] interface {
	Lerp(to T, fraction float64) T
}

// Keyframe is a target pose reached Duration after the previous keyframe
// (or after the spline start for the first keyframe).
type Keyframe[T any] struct {
	Duration  time.Duration
	Positions T
}

// TimedSpline follows a start value through an ordered list of keyframes.
type TimedSpline[T Interpolate[T]] struct {
	mode      Mode
	positions []T             // positions[0] is the start value
	arrivals  []time.Duration // arrivals[0] is always zero
}

// New builds a spline starting at start and visiting every keyframe in order.
func New[T Interpolate[T]](start T, keyframes []Keyframe[T], mode Mode) (*TimedSpline[T], error) {
	if len(keyframes) == 0 {
		return nil, ErrNoKeyframes
	}

	positions := make([]T, 0, len(keyframes)+1)
	arrivals := make([]time.Duration, 0, len(keyframes)+1)
	positions = append(positions, start)
	arrivals = append(arrivals, 0)

	var total time.Duration
	for i, kf := range keyframes {
		if kf.Duration < 0 {
			return nil, fmt.Errorf("keyframe %d: %w (%v)", i, ErrNegativeDuration, kf.Duration)
		}
		total += kf.Duration
		positions = append(positions, kf.Positions)
		arrivals = append(arrivals, total)
	}

	return &TimedSpline[T]{
		mode:      mode,
		positions: positions,
		arrivals:  arrivals,
	}, nil
}

// Mode returns the interpolation mode.
func (s *TimedSpline[T]) Mode() Mode {
	return s.mode
}

// TotalDuration is the arrival time of the last keyframe.
func (s *TimedSpline[T]) TotalDuration() time.Duration {
	return s.arrivals[len(s.arrivals)-1]
}

// StartPosition returns the value the spline starts from.
func (s *TimedSpline[T]) StartPosition() T {
	return s.positions[0]
}

// EndPosition returns the last keyframe value.
func (s *TimedSpline[T]) EndPosition() T {
	return s.positions[len(s.positions)-1]
}

// SetStartPosition replaces the start value. Keyframes are unchanged.
func (s *TimedSpline[T]) SetStartPosition(position T) {
	s.positions[0] = position
}

// ValueAt returns the interpolated value elapsed into the spline. Times
// outside [0, TotalDuration] are clamped.
func (s *TimedSpline[T]) ValueAt(elapsed time.Duration) T {
	if elapsed <= 0 {
		return s.positions[0]
	}
	if elapsed >= s.TotalDuration() {
		return s.EndPosition()
	}

	// First point strictly after elapsed; arrivals[0] == 0 < elapsed so next >= 1.
	next := sort.Search(len(s.arrivals), func(i int) bool {
		return s.arrivals[i] > elapsed
	})
	prev := next - 1

	span := s.arrivals[next] - s.arrivals[prev]
	fraction := float64(elapsed-s.arrivals[prev]) / float64(span)

	return s.positions[prev].Lerp(s.positions[next], s.mode.ease(fraction))
}
