package server

import "errors"

var (
	ErrOperationNotFound = errors.New("operation not found")
	ErrNotReady          = errors.New("operation has not finished")
	ErrWrongKind         = errors.New("operation does not provide this result")
)
