package bucket

import "strings"

// DefaultStripPrefix is the top-level folder removed from stored paths when
// no other prefix is configured.
const DefaultStripPrefix = "C-C++ Internship Cognifyz"

// Key returns the bucket key for a file name. Only the base name is
// considered.
func Key(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Label is the key as used in file and folder names. The empty key, produced
// by names ending in '.', is shown as "_".
func Label(key string) string {
	if key == "" {
		return "_"
	}
	return key
}
