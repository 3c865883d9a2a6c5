package archive

import (
	"fmt"
	"io"
)

// Archive is a decoded container: its entries in archive iteration order.
type Archive struct {
	Format  Format
	entries []Entry
}

// Open decodes data as an archive of the given format.
// Undecodable input yields ErrInvalidArchive.
func Open(data []byte, f Format) (*Archive, error) {
	var (
		entries []Entry
		err     error
	)
	switch f {
	case FormatZip:
		entries, err = decodeZip(data)
	case FormatTar, FormatTarGz, FormatTarLz4:
		entries, err = decodeTar(data, f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, err
	}
	return &Archive{Format: f, entries: entries}, nil
}

// Load detects the format of data (see Detect) and decodes it.
func Load(name string, data []byte) (*Archive, error) {
	return Open(data, Detect(name, data))
}

// Iterate yields every entry in archive order.
func (a *Archive) Iterate(yield func(Entry) bool) {
	for _, e := range a.entries {
		if !yield(e) {
			return
		}
	}
}

// Entries returns the entry sequence. The slice must not be modified.
func (a *Archive) Entries() []Entry {
	return a.entries
}

// Len returns the total number of entries, directories included.
func (a *Archive) Len() int {
	return len(a.entries)
}

// FileCount returns the number of non-directory entries.
func (a *Archive) FileCount() int {
	count := 0
	for e := range a.Iterate {
		if !e.IsDir {
			count++
		}
	}
	return count
}

// Writer accumulates entries into an encoded archive.
type Writer interface {
	Add(e Entry) error
	Close() error
}

// NewWriter returns a Writer producing an archive of format f on w.
// Close must be called to flush the container trailer; it does not close w.
func NewWriter(w io.Writer, f Format) (Writer, error) {
	switch f {
	case FormatZip:
		return newZipWriter(w), nil
	case FormatTar, FormatTarGz, FormatTarLz4:
		return newTarWriter(w, f), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// Encode writes entries as one archive of format f.
func Encode(w io.Writer, f Format, entries []Entry) error {
	aw, err := NewWriter(w, f)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := aw.Add(e); err != nil {
			aw.Close()
			return err
		}
	}
	return aw.Close()
}
