// Package treefs exposes an extracted archive tree as a read-only FUSE
// filesystem.
//
// Directories list their children in name order and files return the content
// read at extraction time. Nothing is ever written back.
//
// Example:
//
//	root, _ := tree.FromArchive(ctx, a)
//	err := treefs.Serve(ctx, "/mnt/archive", treefs.New(root, time.Now()), log)
package treefs
