// Package tree materializes a flat sequence of archive entries into a nested
// directory tree that can be browsed, rendered, and queried for single files.
//
// The tree is plain data. Presentation state (which directories are
// expanded) lives in a View, keyed by node path, so one tree can back any
// number of independent renderings.
package tree
