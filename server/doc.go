// Package server exposes extract, organize and compress over HTTP.
//
// Uploads start an operation and return immediately with its ID. Clients
// poll GET /api/operations/:id or follow GET /api/operations/:id/progress
// over a websocket, then fetch the tree, single files, bucket archives or
// the compressed archive. Finished operations live in a bounded LRU cache.
package server
