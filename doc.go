// Package main provides the zipsort command-line interface.
//
// zipsort browses, organizes and builds archives. It reads ZIP and tar
// (plain, gzip or lz4) archives, materializes their directory tree, splits
// their files into one archive per extension and packs local selections into
// new archives, reporting progress as it goes.
//
// The main binary supports multiple subcommands:
//   - tree, extract, organize, compress: one-shot archive operations
//   - serve: the same operations over HTTP with websocket progress
//   - watch: organize archives dropped into a folder
//   - mount: browse an archive through a read-only FUSE filesystem
//   - count, seed: utilities
package main
