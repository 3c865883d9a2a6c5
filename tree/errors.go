package tree

import "errors"

// Sentinel errors for package tree.
var (
	ErrNotFound     = errors.New("no node at path")
	ErrNotFile      = errors.New("expected file, got directory")
	ErrNotDirectory = errors.New("expected directory, got file")
)
