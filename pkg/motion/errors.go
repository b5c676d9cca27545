package motion

import "errors"

// ErrNoFrames is returned when an interpolator is built without any phase.
var ErrNoFrames = errors.New("motion has no frames")
