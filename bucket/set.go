package bucket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/tree"
	"github.com/dendrascience/zipsort/workflow"
)

// Sink receives encoded bucket archives. Delete of a missing name is not an
// error.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// Set maps keys to buckets. Buckets are created on first use.
type Set struct {
	buckets map[string]*Bucket
}

func NewSet() *Set {
	return &Set{buckets: make(map[string]*Bucket)}
}

// Add files content under key at path p.
func (s *Set) Add(key, p string, content []byte) {
	b, ok := s.buckets[key]
	if !ok {
		b = newBucket(key)
		s.buckets[key] = b
	}
	b.Add(p, content)
}

// Keys returns every key in sorted order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.buckets))
	for k := range s.buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Set) Get(key string) (*Bucket, bool) {
	b, ok := s.buckets[key]
	return b, ok
}

func (s *Set) Len() int { return len(s.buckets) }

// FileName is the name of the archive holding bucket key.
func FileName(key string, f archive.Format) string {
	return Label(key) + f.Ext()
}

// Encode writes bucket key as one archive of format f.
func (s *Set) Encode(key string, w io.Writer, f archive.Format) error {
	b, ok := s.buckets[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBucket, key)
	}
	return archive.Encode(w, f, b.Entries())
}

// Archives encodes every bucket concurrently as format f, keyed by FileName.
func (s *Set) Archives(ctx context.Context, f archive.Format) (map[string][]byte, error) {
	keys := s.Keys()
	out := make(map[string][]byte, len(keys))
	var mu sync.Mutex
	err := workflow.Join(ctx, len(keys), func(ctx context.Context, i int) error {
		var buf bytes.Buffer
		if err := s.Encode(keys[i], &buf, f); err != nil {
			return fmt.Errorf("failed to encode bucket %q: %w", keys[i], err)
		}
		mu.Lock()
		out[FileName(keys[i], f)] = buf.Bytes()
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeAll encodes every bucket and stores the archives in sink under
// FileName. Nothing is stored unless every bucket encodes, and a failed
// store removes the archives already written.
func (s *Set) EncodeAll(ctx context.Context, sink Sink, f archive.Format) error {
	objects, err := s.Archives(ctx, f)
	if err != nil {
		return err
	}
	return PutAll(ctx, sink, objects)
}

// PutAll stores objects in sink concurrently. When any Put fails the objects
// already stored are deleted again and the first failure is returned.
func PutAll(ctx context.Context, sink Sink, objects map[string][]byte) error {
	names := slices.Sorted(maps.Keys(objects))
	var (
		mu     sync.Mutex
		stored []string
	)
	err := workflow.Join(ctx, len(names), func(ctx context.Context, i int) error {
		if err := sink.Put(ctx, names[i], objects[names[i]]); err != nil {
			return fmt.Errorf("failed to store %s: %w", names[i], err)
		}
		mu.Lock()
		stored = append(stored, names[i])
		mu.Unlock()
		return nil
	})
	if err != nil {
		return errors.Join(err, Remove(context.WithoutCancel(ctx), sink, stored))
	}
	return nil
}

// Remove deletes names from sink, collecting every failure.
func Remove(ctx context.Context, sink Sink, names []string) error {
	var errs []error
	for _, name := range names {
		if err := sink.Delete(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Tree builds the organized view: one top-level directory per key label,
// holding that bucket's files at their stored paths.
func (s *Set) Tree(ctx context.Context) (*tree.Node, error) {
	var entries []archive.Entry
	for _, k := range s.Keys() {
		for p, content := range s.buckets[k].Iterate {
			entries = append(entries, archive.FileEntry(Label(k)+"/"+p, content))
		}
	}
	return tree.Build(ctx, entries)
}

// Count summarizes one bucket.
type Count struct {
	Key   string `json:"key"`
	Files int    `json:"files"`
	Bytes int64  `json:"bytes"`
}

// Summary returns per-key counts in key order.
func (s *Set) Summary() []Count {
	out := make([]Count, 0, len(s.buckets))
	for _, k := range s.Keys() {
		b := s.buckets[k]
		out = append(out, Count{Key: k, Files: b.Len(), Bytes: b.Bytes()})
	}
	return out
}
