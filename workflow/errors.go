package workflow

import "errors"

// Sentinel errors for package workflow.
var (
	ErrNoResult      = errors.New("operation has no result")
	ErrNegativeTotal = errors.New("task count must not be negative")
	ErrUnknownKind   = errors.New("unknown operation kind")
)
