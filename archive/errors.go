package archive

import "errors"

// Sentinel errors for package archive.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Decoding errors
	ErrInvalidArchive = errors.New("input is not a valid archive")
	ErrEntryRead      = errors.New("archive entry could not be read")

	// Format errors
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// Entry errors
	ErrIsDirectory  = errors.New("expected file, got directory")
	ErrEmptyPath    = errors.New("entry path is empty")
	ErrWriterClosed = errors.New("archive writer already closed")

	// Collection errors
	ErrUnexpectedSymlink = errors.New("expected file, got symlink")
	ErrNothingSelected   = errors.New("no files selected")
)
