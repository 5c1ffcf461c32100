// Package blobstore abstracts where record snapshots are kept.
//
// A BlobStore holds immutable, named blobs. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and embedding
//   - LocalStore: local filesystem; reads are memory-mapped
//   - s3.Store: Amazon S3 with range reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Use ReadAll to fetch a whole blob regardless of backend.
package blobstore
