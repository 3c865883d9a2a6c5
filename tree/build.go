package tree

import (
	"context"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/workflow"
)

type buildOptions struct {
	progress workflow.ProgressFunc
}

// Option configures Build.
type Option func(*buildOptions)

// WithProgress reports a percentage after every entry, directories
// included. Reported values never decrease and the last one is 100.
func WithProgress(fn workflow.ProgressFunc) Option {
	return func(o *buildOptions) { o.progress = fn }
}

// Build turns entries into a tree rooted at an unnamed directory.
//
// File contents are read concurrently, one goroutine per entry, and inserted
// in entry order once every read has finished. A later entry at the same path
// replaces an earlier one. Directory entries create (possibly empty)
// directories. If any read fails Build returns the error and no tree.
func Build(ctx context.Context, entries []archive.Entry, opts ...Option) (*Node, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	counter := workflow.NewCounter(len(entries), o.progress)
	contents := make([][]byte, len(entries))
	err := workflow.Join(ctx, len(entries), func(ctx context.Context, i int) error {
		if entries[i].IsDir {
			counter.Done()
			return nil
		}
		data, err := entries[i].ReadAll()
		if err != nil {
			return err
		}
		contents[i] = data
		counter.Done()
		return nil
	})
	if err != nil {
		return nil, err
	}

	root := NewDirectory("")
	for i, e := range entries {
		segs := Split(e.Path)
		if e.IsDir {
			root.dir(segs)
			continue
		}
		root.put(segs, NewFile(e.Name(), contents[i]))
	}
	return root, nil
}

// FromArchive builds the tree of every entry in a.
func FromArchive(ctx context.Context, a *archive.Archive, opts ...Option) (*Node, error) {
	return Build(ctx, a.Entries(), opts...)
}
