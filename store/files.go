package store

import (
	"context"
	"slices"
	"strings"

	"github.com/dendrascience/zipsort/bucket"
	"github.com/dendrascience/zipsort/tree"
)

// Store is a sink that can also read back and enumerate its objects.
type Store interface {
	bucket.Sink
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// SaveFiles writes every file below root to sink at its tree path. Either
// all files are written or none are left behind. Directories without files
// are not represented.
func SaveFiles(ctx context.Context, root *tree.Node, sink bucket.Sink) (int, error) {
	objects := make(map[string][]byte)
	for p, n := range root.Iterate {
		if n.Kind == tree.File {
			objects[p] = n.Content
		}
	}
	if err := bucket.PutAll(ctx, sink, objects); err != nil {
		return 0, err
	}
	return len(objects), nil
}

// SaveFile writes the single file at p under its own base name.
func SaveFile(ctx context.Context, root *tree.Node, p string, sink bucket.Sink) (string, error) {
	n, err := root.LookupFile(p)
	if err != nil {
		return "", err
	}
	if err := sink.Put(ctx, n.Name, n.Content); err != nil {
		return "", err
	}
	return n.Name, nil
}

type prefixed struct {
	store  Store
	prefix string
}

func (p prefixed) key(name string) string {
	return p.prefix + "/" + strings.TrimLeft(name, "/")
}

func (p prefixed) Put(ctx context.Context, name string, data []byte) error {
	return p.store.Put(ctx, p.key(name), data)
}

func (p prefixed) Delete(ctx context.Context, name string) error {
	return p.store.Delete(ctx, p.key(name))
}

func (p prefixed) Get(ctx context.Context, name string) ([]byte, error) {
	return p.store.Get(ctx, p.key(name))
}

func (p prefixed) List(ctx context.Context) ([]string, error) {
	all, err := p.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, name := range all {
		if rest, ok := strings.CutPrefix(name, p.prefix+"/"); ok {
			names = append(names, rest)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Prefixed returns a store keeping every name below prefix in s.
func Prefixed(s Store, prefix string) Store {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return s
	}
	return prefixed{store: s, prefix: prefix}
}
