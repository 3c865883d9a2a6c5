package archive

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

// Entry is one named unit within an archive: either a directory marker or a
// file whose content is read on demand.
type Entry struct {
	Path     string    // posix-style path inside the archive, '/'-separated
	IsDir    bool      // true for directory markers
	Modified time.Time // zero when the container does not record it
	Size     int64     // uncompressed size, -1 when unknown

	open func() (io.ReadCloser, error)
}

// NewEntry creates an entry whose content is produced by open.
// open is ignored for directories.
func NewEntry(path string, isDir bool, open func() (io.ReadCloser, error)) Entry {
	return Entry{Path: path, IsDir: isDir, Size: -1, open: open}
}

// FileEntry creates a file entry backed by an in-memory payload.
func FileEntry(path string, content []byte) Entry {
	return Entry{
		Path: path,
		Size: int64(len(content)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// DirEntry creates a directory marker.
func DirEntry(path string) Entry {
	return Entry{Path: path, IsDir: true}
}

// Name returns the base name of the entry: its last non-empty path segment.
func (e Entry) Name() string {
	trimmed := strings.TrimRight(e.Path, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Open returns a reader over the entry's content.
func (e Entry) Open() (io.ReadCloser, error) {
	if e.IsDir {
		return nil, ErrIsDirectory
	}
	if e.open == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return e.open()
}

// ReadAll resolves the lazy reader and returns the full payload.
// Failures are reported as ErrEntryRead.
func (e Entry) ReadAll() ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEntryRead, e.Path, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEntryRead, e.Path, err)
	}
	return data, nil
}
