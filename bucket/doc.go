// Package bucket sorts the files of an archive into buckets keyed by file
// extension, one output archive per bucket.
//
// The key of a file is the text after the last '.' in its base name, or the
// whole base name when it has no dot, so README lands in bucket "README" and
// photo.tar.gz in bucket "gz". Archives that wrap everything in a single
// well-known top-level folder can have that folder stripped from the stored
// paths.
package bucket
