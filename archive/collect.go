package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ArchivePath returns the internal path of a selected file. relativePath is
// the path of the file relative to the selection root, including the selected
// folder's own name; when it is empty the file is stored flat under name.
func ArchivePath(relativePath, name string) string {
	relativePath = filepath.ToSlash(relativePath)
	folder := ""
	if i := strings.LastIndex(relativePath, "/"); i >= 0 {
		folder = strings.Trim(relativePath[:i], "/")
	}
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// Collect turns a local selection of files and folders into file entries.
// A selected file is stored under its base name; files below a selected
// folder are stored under folder/relative/path. Symlinks are skipped.
func Collect(paths []string) ([]Entry, error) {
	var entries []Entry
	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			return nil, err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}
		if !info.IsDir() {
			entries = append(entries, diskEntry(p, ArchivePath("", info.Name()), info))
			continue
		}

		root := filepath.Clean(p)
		base := filepath.Base(root)
		err = filepath.WalkDir(root, func(subpath string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("error walking path %s: %w", subpath, err)
			}
			if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			rel, err := filepath.Rel(root, subpath)
			if err != nil {
				return fmt.Errorf("failed to get relative path: %w", err)
			}
			fi, err := d.Info()
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			if err != nil {
				return err
			}
			relativePath := path.Join(base, filepath.ToSlash(rel))
			entries = append(entries, diskEntry(subpath, ArchivePath(relativePath, d.Name()), fi))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(entries) == 0 {
		return nil, ErrNothingSelected
	}
	return entries, nil
}

func diskEntry(src, name string, info os.FileInfo) Entry {
	e := NewEntry(name, false, func() (io.ReadCloser, error) {
		return os.Open(src)
	})
	e.Modified = info.ModTime()
	e.Size = info.Size()
	return e
}
