package archive

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format names a container encoding.
type Format string

const (
	FormatZip    Format = "zip"
	FormatTar    Format = "tar"
	FormatTarGz  Format = "tar.gz"
	FormatTarLz4 Format = "tar.lz4"
)

// DefaultFormat is used whenever a format is not given or cannot be detected.
const DefaultFormat = FormatZip

var formats = []Format{FormatZip, FormatTar, FormatTarGz, FormatTarLz4}

// Formats lists every supported format.
func Formats() []Format {
	return slices.Clone(formats)
}

// ParseFormat validates a user supplied format name. An empty name selects
// DefaultFormat; "tgz" is accepted as an alias of tar.gz.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return DefaultFormat, nil
	case "tgz":
		return FormatTarGz, nil
	}
	f := Format(name)
	if !slices.Contains(formats, f) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// Ext returns the file extension for archives of this format, with the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

var (
	zipMagic      = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
	gzipMagic     = []byte{0x1f, 0x8b}
	lz4Magic      = []byte{0x04, 0x22, 0x4d, 0x18}
	tarMagic      = []byte("ustar")
)

// Detect guesses the format of data, preferring magic bytes and falling back
// to the file name. Unknown inputs are reported as DefaultFormat so that the
// decoder produces a proper ErrInvalidArchive.
func Detect(name string, data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic), bytes.HasPrefix(data, zipEmptyMagic):
		return FormatZip
	case bytes.HasPrefix(data, gzipMagic):
		return FormatTarGz
	case bytes.HasPrefix(data, lz4Magic):
		return FormatTarLz4
	case len(data) > 262 && bytes.Equal(data[257:262], tarMagic):
		return FormatTar
	}
	return FormatFromName(name)
}

// FormatFromName maps a file name to a format by its extension.
func FormatFromName(name string) Format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(lower, ".tar.lz4"):
		return FormatTarLz4
	case filepath.Ext(lower) == ".tar":
		return FormatTar
	}
	return DefaultFormat
}

var archiveSuffixes = []string{".zip", ".tar", ".tar.gz", ".tgz", ".tar.lz4"}

// IsArchiveName reports whether name carries an archive extension. The
// short form .tgz counts as well.
func IsArchiveName(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Stem strips the archive extension from a file name.
func Stem(name string) string {
	lower := strings.ToLower(name)
	longest := ""
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s) && len(s) > len(longest) {
			longest = s
		}
	}
	return name[:len(name)-len(longest)]
}
