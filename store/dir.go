package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var _ Store = (*DirSink)(nil)

// DirSink writes objects as files below Root. Names are '/'-separated and
// may not escape Root. Root is only created by the first Put.
type DirSink struct {
	Root string

	// owned is set when Root did not exist yet; Delete may then remove Root
	// itself once it is empty again.
	owned bool
}

// NewDirSink returns a sink rooted at root. An existing root must be a
// directory.
func NewDirSink(root string) (*DirSink, error) {
	if root == "" {
		return nil, ErrEmptyName
	}
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &DirSink{Root: root, owned: true}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to inspect output directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("output %s is not a directory", root)
	}
	return &DirSink{Root: root}, nil
}

// Path resolves name below the sink root.
func (d *DirSink) Path(name string) (string, error) {
	name = strings.Trim(name, "/")
	if name == "" {
		return "", ErrEmptyName
	}
	root := filepath.Clean(d.Root)
	p := filepath.Join(root, filepath.FromSlash(name))
	if p != root && !strings.HasPrefix(p, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, name)
	}
	return p, nil
}

func (d *DirSink) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		_ = d.Delete(ctx, name)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (d *DirSink) Get(ctx context.Context, name string) ([]byte, error) {
	p, err := d.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}

// Delete removes name and every directory above it that became empty,
// stopping at Root.
func (d *DirSink) Delete(ctx context.Context, name string) error {
	p, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	root := filepath.Clean(d.Root)
	for dir := filepath.Dir(p); dir != root; dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			return nil
		}
	}
	if d.owned {
		os.Remove(root)
	}
	return nil
}

// List returns every stored name, '/'-separated and sorted.
func (d *DirSink) List(ctx context.Context) ([]string, error) {
	root := filepath.Clean(d.Root)
	var names []string
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			if p == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}
	slices.Sort(names)
	return names, nil
}
