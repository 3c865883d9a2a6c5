package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
)

func decodeZip(data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	// ErrInsecurePath still returns a usable reader; such names are kept
	// verbatim since nothing is written to disk from them here.
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		entries = append(entries, Entry{
			Path:     f.Name,
			IsDir:    f.FileInfo().IsDir(),
			Modified: f.Modified,
			Size:     int64(f.UncompressedSize64),
			open:     f.Open,
		})
	}
	return entries, nil
}

type zipWriter struct {
	zw     *zip.Writer
	closed bool
}

func newZipWriter(w io.Writer) *zipWriter {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	return &zipWriter{zw: zw}
}

func (z *zipWriter) Add(e Entry) error {
	if z.closed {
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
		_, err := z.zw.CreateHeader(&zip.FileHeader{Name: name, Modified: e.Modified})
		return err
	}

	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: e.Modified,
	}
	w, err := z.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("failed to create zip entry %s: %w", name, err)
	}
	rc, err := e.Open()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEntryRead, e.Path, err)
	}
	defer rc.Close()
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("failed to write zip entry %s: %w", name, err)
	}
	return nil
}

func (z *zipWriter) Close() error {
	if z.closed {
		return nil
	}
	z.closed = true
	return z.zw.Close()
}
