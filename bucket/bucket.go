package bucket

import (
	"context"
	"slices"
	"strings"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/workflow"
)

// Bucket accumulates (path, content) pairs for one key. Paths keep the order
// of their first insertion; adding an existing path replaces its content.
type Bucket struct {
	Key   string
	paths []string
	files map[string][]byte
}

func newBucket(key string) *Bucket {
	return &Bucket{Key: key, files: make(map[string][]byte)}
}

// Add stores content under p.
func (b *Bucket) Add(p string, content []byte) {
	if _, ok := b.files[p]; !ok {
		b.paths = append(b.paths, p)
	}
	b.files[p] = content
}

// Len returns the number of distinct paths.
func (b *Bucket) Len() int { return len(b.paths) }

// Paths returns the stored paths in insertion order.
func (b *Bucket) Paths() []string { return slices.Clone(b.paths) }

// Content returns the content stored under p.
func (b *Bucket) Content(p string) ([]byte, bool) {
	c, ok := b.files[p]
	return c, ok
}

// Bytes returns the total content size.
func (b *Bucket) Bytes() int64 {
	var n int64
	for _, c := range b.files {
		n += int64(len(c))
	}
	return n
}

// Iterate yields each path with its content in insertion order.
func (b *Bucket) Iterate(yield func(string, []byte) bool) {
	for _, p := range b.paths {
		if !yield(p, b.files[p]) {
			return
		}
	}
}

// Entries returns the bucket as archive entries ready for encoding.
func (b *Bucket) Entries() []archive.Entry {
	entries := make([]archive.Entry, 0, len(b.paths))
	for p, content := range b.Iterate {
		entries = append(entries, archive.FileEntry(p, content))
	}
	return entries
}

// Bucketer sorts archive entries by extension key.
type Bucketer struct {
	// StripPrefix is dropped from a path whose first segment equals it,
	// as long as the path has more than one segment. Empty disables it.
	StripPrefix string
}

// Default returns a Bucketer stripping DefaultStripPrefix.
func Default() Bucketer {
	return Bucketer{StripPrefix: DefaultStripPrefix}
}

// StoredPath returns the path under which p is kept in its bucket.
func (b Bucketer) StoredPath(p string) string {
	if b.StripPrefix == "" {
		return p
	}
	parts := strings.Split(p, "/")
	if len(parts) > 1 && parts[0] == b.StripPrefix {
		return strings.Join(parts[1:], "/")
	}
	return p
}

// Bucket reads every file entry and files it under its key. Reads run
// concurrently without a limit; the set is assembled in entry order after
// all of them finish, so a later duplicate path wins. Directory entries add
// nothing but still count towards progress, which is reported once per entry.
// Any read error fails the whole pass.
func (b Bucketer) Bucket(ctx context.Context, entries []archive.Entry, progress workflow.ProgressFunc) (*Set, error) {
	counter := workflow.NewCounter(len(entries), progress)
	contents := make([][]byte, len(entries))
	err := workflow.Join(ctx, len(entries), func(ctx context.Context, i int) error {
		defer counter.Done()
		if entries[i].IsDir {
			return nil
		}
		data, err := entries[i].ReadAll()
		if err != nil {
			return err
		}
		contents[i] = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	set := NewSet()
	for i, e := range entries {
		if e.IsDir {
			continue
		}
		set.Add(Key(e.Name()), b.StoredPath(e.Path), contents[i])
	}
	return set, nil
}
