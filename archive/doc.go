// Package archive is the codec boundary of zipsort.
//
// Decoding turns raw archive bytes into an ordered sequence of Entry values,
// each carrying its archive-relative path, a directory flag and a lazy content
// reader. Encoding turns a sequence of entries back into raw archive bytes.
// The actual container work is delegated to archive/zip, archive/tar and the
// compression libraries; this package only adapts them to a common shape.
//
// Supported formats:
//   - zip: the default, deflate via github.com/klauspost/compress/flate
//   - tar: plain ustar/pax streams
//   - tar.gz: gzip-compressed tar via github.com/klauspost/compress/gzip
//   - tar.lz4: LZ4-framed tar via github.com/pierrec/lz4/v4
//
// Zip entries are read lazily from a shared io.ReaderAt and are safe to open
// concurrently. Tar-family entries are buffered while the stream is decoded,
// since a tar stream can only be walked once.
//
// Collect and ArchivePath implement the compressor side: they turn a local
// file selection into entries whose internal paths mirror the selection.
package archive
