package motionfile

import "errors"

var (
	// ErrNotFound is returned when an embedded motion does not exist.
	ErrNotFound = errors.New("motion not found")

	// ErrEmptyMotion is returned when a motion file has no frames.
	ErrEmptyMotion = errors.New("motion file has no frames")

	// ErrUnknownFormat is returned for file extensions other than json, yaml and yml.
	ErrUnknownFormat = errors.New("unknown motion file format")

	// ErrInvalidMotion is returned when a motion file fails schema validation.
	ErrInvalidMotion = errors.New("invalid motion file")
)
