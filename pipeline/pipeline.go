// Package pipeline strings the archive, tree and bucket packages together
// into the three user facing operations: extract, organize and compress.
// Every front-end (CLI, HTTP server, drop-folder watcher) goes through here.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/bucket"
	"github.com/dendrascience/zipsort/tree"
	"github.com/dendrascience/zipsort/workflow"
)

// Extract decodes data and materializes its tree.
func Extract(ctx context.Context, name string, data []byte, progress workflow.ProgressFunc) (*tree.Node, error) {
	a, err := archive.Load(name, data)
	if err != nil {
		return nil, err
	}
	return tree.FromArchive(ctx, a, tree.WithProgress(progress))
}

// Organized is the outcome of Organize.
type Organized struct {
	Source  string
	Buckets *bucket.Set
	Tree    *tree.Node
}

// Organize decodes data, sorts its files into buckets and builds the
// organized display tree.
func Organize(ctx context.Context, name string, data []byte, b bucket.Bucketer, progress workflow.ProgressFunc) (*Organized, error) {
	a, err := archive.Load(name, data)
	if err != nil {
		return nil, err
	}
	set, err := b.Bucket(ctx, a.Entries(), progress)
	if err != nil {
		return nil, err
	}
	root, err := set.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return &Organized{Source: name, Buckets: set, Tree: root}, nil
}

// ManifestName is the object written next to the bucket archives by Publish.
const ManifestName = "manifest.json"

// Publish writes one archive per bucket of o to sink, followed by the
// manifest describing them. Everything is encoded before the first write,
// and a failed write leaves nothing of o behind in sink.
func Publish(ctx context.Context, o *Organized, sink bucket.Sink, b bucket.Bucketer, f archive.Format) error {
	objects, err := o.Buckets.Archives(ctx, f)
	if err != nil {
		return err
	}
	var manifest bytes.Buffer
	if err := o.Buckets.Manifest(o.Source, b, f).Encode(&manifest); err != nil {
		return err
	}
	if err := bucket.PutAll(ctx, sink, objects); err != nil {
		return err
	}
	if err := sink.Put(ctx, ManifestName, manifest.Bytes()); err != nil {
		names := slices.Sorted(maps.Keys(objects))
		return errors.Join(
			fmt.Errorf("failed to store %s: %w", ManifestName, err),
			bucket.Remove(context.WithoutCancel(ctx), sink, names),
		)
	}
	return nil
}

// Compress encodes entries into w, reporting progress once per entry
// written.
func Compress(ctx context.Context, entries []archive.Entry, f archive.Format, w io.Writer, progress workflow.ProgressFunc) error {
	aw, err := archive.NewWriter(w, f)
	if err != nil {
		return err
	}
	counter := workflow.NewCounter(len(entries), progress)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			aw.Close()
			return err
		}
		if err := aw.Add(e); err != nil {
			aw.Close()
			return fmt.Errorf("failed to add %s: %w", e.Path, err)
		}
		counter.Done()
	}
	return aw.Close()
}

// DefaultArchiveName is the file name offered for a compressed selection.
func DefaultArchiveName(f archive.Format) string {
	return "compressed" + f.Ext()
}
