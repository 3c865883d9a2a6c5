// Package cmd provides the command-line interface implementation for zipsort.
//
// It uses the Cobra library for command structure and Fang for styling.
// Every archive command goes through the pipeline package and reports its
// progress from a workflow.Slot, so the CLI, the HTTP server and the watcher
// share one implementation of extract, organize and compress.
//
// Commands:
//   - tree: print the directory tree of an archive
//   - extract: write the files of an archive to a directory
//   - organize: split an archive into one archive per file extension
//   - compress: pack local files and folders into a new archive
//   - count: count the files of an archive per extension
//   - mount: expose an archive tree through a read-only FUSE filesystem
//   - serve: run the HTTP API
//   - watch: organize archives dropped into a folder
//   - seed: generate sample input
package cmd
