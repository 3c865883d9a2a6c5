package store

import "errors"

// Sentinel errors for package store.
var (
	ErrOutsideRoot   = errors.New("path outside destination directory")
	ErrEmptyName     = errors.New("object name is required")
	ErrNotFound      = errors.New("object not found")
	ErrMissingConfig = errors.New("incomplete s3 configuration")
)
