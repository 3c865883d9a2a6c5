// Package store persists organized bucket archives and extracted files.
//
// Two sinks are provided: DirSink writes under a local directory and S3Sink
// uploads to any S3 compatible endpoint through minio-go. Both satisfy
// Store, which adds reading back and listing to bucket.Sink.
package store
