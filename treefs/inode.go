package treefs

import "sync"

// inodes hands out stable inode numbers per tree path. The root is always 1.
type inodes struct {
	mu      sync.Mutex
	highest uint64
	byPath  map[string]uint64
}

func newInodes() *inodes {
	return &inodes{highest: 1, byPath: map[string]uint64{"": 1}}
}

func (i *inodes) get(path string) uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	if ino, ok := i.byPath[path]; ok {
		return ino
	}
	i.highest++
	i.byPath[path] = i.highest
	return i.highest
}
