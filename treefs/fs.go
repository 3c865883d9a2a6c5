package treefs

import (
	"context"
	"os"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/dendrascience/zipsort/tree"
)

// FS serves one tree.
type FS struct {
	root     *tree.Node
	modified time.Time
	inodes   *inodes
}

// New returns a filesystem over root. modified is reported as the mtime of
// every node.
func New(root *tree.Node, modified time.Time) *FS {
	return &FS{root: root, modified: modified, inodes: newInodes()}
}

func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f, node: f.root}, nil
}

// Dir implements both Node and Handle for directories
type Dir struct {
	fs   *FS
	node *tree.Node
	path string
}

var (
	_ fs.Node               = (*Dir)(nil)
	_ fs.NodeStringLookuper = (*Dir)(nil)
	_ fs.HandleReadDirAller = (*Dir)(nil)
)

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = d.fs.inodes.get(d.path)
	a.Mode = os.ModeDir | 0o555
	a.Mtime = d.fs.modified
	a.Ctime = d.fs.modified
	a.Atime = d.fs.modified
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	child := d.node.Child(name)
	if child == nil {
		return nil, syscall.ENOENT
	}
	return d.fs.wrap(join(d.path, name), child), nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	children := d.node.Children()
	dirents := make([]fuse.Dirent, 0, len(children))
	for _, child := range children {
		typ := fuse.DT_File
		if child.IsDir() {
			typ = fuse.DT_Dir
		}
		dirents = append(dirents, fuse.Dirent{
			Inode: d.fs.inodes.get(join(d.path, child.Name)),
			Name:  child.Name,
			Type:  typ,
		})
	}
	return dirents, nil
}

// File is a read-only leaf.
type File struct {
	fs   *FS
	node *tree.Node
	path string
}

var (
	_ fs.Node            = (*File)(nil)
	_ fs.HandleReadAller = (*File)(nil)
)

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = f.fs.inodes.get(f.path)
	a.Mode = 0o444
	a.Size = uint64(len(f.node.Content))
	a.Mtime = f.fs.modified
	a.Ctime = f.fs.modified
	a.Atime = f.fs.modified
	return nil
}

func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	return f.node.Content, nil
}

func (f *FS) wrap(path string, n *tree.Node) fs.Node {
	if n.IsDir() {
		return &Dir{fs: f, node: n, path: path}
	}
	return &File{fs: f, node: n, path: path}
}

func join(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
