package spline

import "errors"

var (
	// ErrNoKeyframes is returned when a spline is built without keyframes.
	ErrNoKeyframes = errors.New("spline has no keyframes")

	// ErrNegativeDuration is returned when a keyframe arrives before its predecessor.
	ErrNegativeDuration = errors.New("keyframe duration is negative")

	// ErrUnknownMode is returned for unrecognised interpolation mode names.
	ErrUnknownMode = errors.New("unknown interpolation mode")
)
