package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUnknownNeedType indicates an unrecognised need type segment.
	ErrUnknownNeedType = errors.New("need type unknown")
)
