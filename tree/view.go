package tree

import (
	"fmt"
	"io"
	"strings"
)

const (
	closedIcon = "📁"
	openIcon   = "📂"
	rootLabel  = "Root"
	indent     = "  "
)

// View renders a tree with a per-directory expanded flag. All directories
// start collapsed. Keys are node paths as yielded by Node.Iterate; the root
// is "".
type View struct {
	root     *Node
	expanded map[string]bool

	// FileSuffix, when set, is appended to every file line.
	FileSuffix func(path string, n *Node) string
}

// NewView returns a collapsed view of root.
func NewView(root *Node) *View {
	return &View{root: root, expanded: make(map[string]bool)}
}

func (v *View) Root() *Node { return v.root }

// Toggle flips the expanded flag of the directory at path and returns the
// new value. Paths that do not name a directory are left alone.
func (v *View) Toggle(path string) bool {
	key := v.key(path)
	n, err := v.root.Lookup(key)
	if err != nil || n.Kind != Directory {
		return false
	}
	v.expanded[key] = !v.expanded[key]
	return v.expanded[key]
}

// Expand opens the directory at path and every directory above it.
func (v *View) Expand(path string) {
	segs := Split(path)
	v.expanded[""] = true
	for i := range segs {
		v.expanded[strings.Join(segs[:i+1], "/")] = true
	}
}

func (v *View) Collapse(path string) {
	delete(v.expanded, v.key(path))
}

// ExpandAll opens every directory.
func (v *View) ExpandAll() {
	v.expanded[""] = true
	for p, n := range v.root.Iterate {
		if n.Kind == Directory {
			v.expanded[p] = true
		}
	}
}

func (v *View) IsExpanded(path string) bool {
	return v.expanded[v.key(path)]
}

func (v *View) key(path string) string {
	return strings.Join(Split(path), "/")
}

// Render writes one line per visible node, children indented under their
// directory.
func (v *View) Render(w io.Writer) error {
	return v.render(w, v.root, "", rootLabel, 0)
}

func (v *View) render(w io.Writer, n *Node, path, label string, depth int) error {
	pad := strings.Repeat(indent, depth)
	if n.Kind == File {
		suffix := ""
		if v.FileSuffix != nil {
			suffix = v.FileSuffix(path, n)
		}
		_, err := fmt.Fprintf(w, "%s%s%s\n", pad, label, suffix)
		return err
	}

	open := v.expanded[path]
	icon := closedIcon
	if open {
		icon = openIcon
	}
	if _, err := fmt.Fprintf(w, "%s%s %s\n", pad, icon, label); err != nil {
		return err
	}
	if !open {
		return nil
	}
	for _, seg := range n.segments() {
		childPath := seg
		if path != "" {
			childPath = path + "/" + seg
		}
		if err := v.render(w, n.children[seg], childPath, seg, depth+1); err != nil {
			return err
		}
	}
	return nil
}
