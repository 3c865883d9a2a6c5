package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

func decodeTar(data []byte, f Format) ([]Entry, error) {
	var src io.Reader = bytes.NewReader(data)
	switch f {
	case FormatTarGz:
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
		}
		defer gz.Close()
		src = gz
	case FormatTarLz4:
		src = lz4.NewReader(src)
	}

	counted := &countingReader{r: src}
	var entries []Entry
	tr := tar.NewReader(counted)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			// an empty tar still carries its zero end blocks
			if counted.n < tarBlockSize {
				return nil, fmt.Errorf("%w: truncated tar stream (%d bytes)", ErrInvalidArchive, counted.n)
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			entries = append(entries, Entry{
				Path:     header.Name,
				IsDir:    true,
				Modified: header.ModTime,
			})
		case tar.TypeReg:
			content, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrEntryRead, header.Name, err)
			}
			e := FileEntry(header.Name, content)
			e.Modified = header.ModTime
			entries = append(entries, e)
		}
		// links, devices and fifos carry no payload worth browsing
	}
	return entries, nil
}

const tarBlockSize = 512

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type tarWriter struct {
	tw     *tar.Writer
	closer io.Closer
	closed bool
}

func newTarWriter(w io.Writer, f Format) *tarWriter {
	t := &tarWriter{}
	switch f {
	case FormatTarGz:
		gz := gzip.NewWriter(w)
		t.closer = gz
		w = gz
	case FormatTarLz4:
		lw := lz4.NewWriter(w)
		t.closer = lw
		w = lw
	}
	t.tw = tar.NewWriter(w)
	return t
}

func (t *tarWriter) Add(e Entry) error {
	if t.closed {
		return ErrWriterClosed
	}
	name := strings.TrimLeft(e.Path, "/")
	if name == "" {
		return ErrEmptyPath
	}

	if e.IsDir {
		if !strings.HasSuffix(name, "/") {
			name += "/"
		}
		return t.tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeDir,
			Name:     name,
			Mode:     0o755,
			ModTime:  tarTime(e.Modified),
		})
	}

	// tar needs the size up front
	content, err := e.ReadAll()
	if err != nil {
		return err
	}
	err = t.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  tarTime(e.Modified),
	})
	if err != nil {
		return fmt.Errorf("failed to write tar header %s: %w", name, err)
	}
	if _, err := t.tw.Write(content); err != nil {
		return fmt.Errorf("failed to write tar entry %s: %w", name, err)
	}
	return nil
}

func (t *tarWriter) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	err := t.tw.Close()
	if t.closer != nil {
		err = errors.Join(err, t.closer.Close())
	}
	return err
}

// tarTime maps an unknown modification time to the epoch, which every tar
// header format can represent.
func tarTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Unix(0, 0)
	}
	return t
}
