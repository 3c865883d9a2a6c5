package tree

import (
	"encoding/json"
	"slices"
	"strings"
)

// Kind tells directories and files apart.
type Kind int

const (
	Directory Kind = iota
	File
)

func (k Kind) String() string {
	if k == File {
		return "file"
	}
	return "directory"
}

// Node is either a Directory holding named children or a File holding the
// full content of one archive entry.
type Node struct {
	Kind    Kind
	Name    string // segment name for directories, the entry's base name for files
	Content []byte

	children map[string]*Node
}

// NewDirectory returns an empty directory node.
func NewDirectory(name string) *Node {
	return &Node{Kind: Directory, Name: name, children: make(map[string]*Node)}
}

// NewFile returns a file node.
func NewFile(name string, content []byte) *Node {
	return &Node{Kind: File, Name: name, Content: content}
}

func (n *Node) IsDir() bool { return n.Kind == Directory }

// Size is the content length of a file and the number of children of a
// directory.
func (n *Node) Size() int {
	if n.Kind == File {
		return len(n.Content)
	}
	return len(n.children)
}

// Child returns the child stored under segment, or nil.
func (n *Node) Child(segment string) *Node {
	if n.Kind != Directory {
		return nil
	}
	return n.children[segment]
}

// Children returns the children sorted by segment name.
func (n *Node) Children() []*Node {
	if n.Kind != Directory {
		return nil
	}
	keys := n.segments()
	out := make([]*Node, len(keys))
	for i, k := range keys {
		out[i] = n.children[k]
	}
	return out
}

func (n *Node) segments() []string {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Iterate yields every node below n with its '/'-joined path, parents
// before children and siblings in name order. n itself is not yielded.
func (n *Node) Iterate(yield func(string, *Node) bool) {
	n.walk("", yield)
}

func (n *Node) walk(prefix string, yield func(string, *Node) bool) bool {
	if n.Kind != Directory {
		return true
	}
	for _, seg := range n.segments() {
		child := n.children[seg]
		p := seg
		if prefix != "" {
			p = prefix + "/" + seg
		}
		if !yield(p, child) {
			return false
		}
		if !child.walk(p, yield) {
			return false
		}
	}
	return true
}

// Files returns the sorted paths of every file below n.
func (n *Node) Files() []string {
	var paths []string
	for p, child := range n.Iterate {
		if child.Kind == File {
			paths = append(paths, p)
		}
	}
	return paths
}

// Count returns how many directories and files sit below n.
func (n *Node) Count() (dirs, files int) {
	for _, child := range n.Iterate {
		if child.Kind == File {
			files++
		} else {
			dirs++
		}
	}
	return dirs, files
}

// Lookup resolves a '/'-separated path relative to n. Empty segments are
// ignored, so "a//b/" and "a/b" name the same node. The empty path is n.
func (n *Node) Lookup(p string) (*Node, error) {
	cur := n
	for _, seg := range Split(p) {
		if cur.Kind != Directory {
			return nil, ErrNotDirectory
		}
		next, ok := cur.children[seg]
		if !ok {
			return nil, ErrNotFound
		}
		cur = next
	}
	return cur, nil
}

// LookupFile is Lookup restricted to file nodes.
func (n *Node) LookupFile(p string) (*Node, error) {
	node, err := n.Lookup(p)
	if err != nil {
		return nil, err
	}
	if node.Kind != File {
		return nil, ErrNotFile
	}
	return node, nil
}

// Split breaks an archive path into its non-empty segments.
func Split(p string) []string {
	parts := strings.Split(p, "/")
	segs := parts[:0]
	for _, s := range parts {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// dir returns the directory at segs below n, creating missing directories
// and replacing files that sit in the way.
func (n *Node) dir(segs []string) *Node {
	cur := n
	for _, seg := range segs {
		next, ok := cur.children[seg]
		if !ok || next.Kind != Directory {
			next = NewDirectory(seg)
			cur.children[seg] = next
		}
		cur = next
	}
	return cur
}

// put stores a file at segs below n, replacing whatever was there.
func (n *Node) put(segs []string, file *Node) {
	if len(segs) == 0 {
		return
	}
	parent := n.dir(segs[:len(segs)-1])
	parent.children[segs[len(segs)-1]] = file
}

// MarshalJSON encodes directories as {"type":"directory","content":{...}}
// and files as {"type":"file","name":...,"size":...}. File content is not
// included.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Kind == File {
		return json.Marshal(struct {
			Type string `json:"type"`
			Name string `json:"name"`
			Size int    `json:"size"`
		}{"file", n.Name, len(n.Content)})
	}
	content := n.children
	if content == nil {
		content = map[string]*Node{}
	}
	return json.Marshal(struct {
		Type    string           `json:"type"`
		Content map[string]*Node `json:"content"`
	}{"directory", content})
}
