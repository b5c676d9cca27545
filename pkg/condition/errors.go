package condition

import "errors"

var (
	// ErrUnknownType is returned when a spec names an unsupported condition.
	ErrUnknownType = errors.New("unknown condition type")

	// ErrInvalidSpec is returned when a spec has out-of-range fields.
	ErrInvalidSpec = errors.New("invalid condition spec")
)
