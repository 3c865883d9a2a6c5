package bucket

import "errors"

// Sentinel errors for package bucket.
var (
	ErrUnknownBucket = errors.New("no bucket with that key")
)
