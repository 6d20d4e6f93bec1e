// Package blobstore reads graph datasets from local disks and object stores.
//
// A BlobStore resolves a dataset name to a Blob, and a Blob streams byte
// ranges. Loaders only ever read, so the interface has no write path;
// MemoryStore and LocalStore accept Put so tests and tools can stage
// inputs.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 with ranged GETs and concurrent downloads
//   - minio.Store: MinIO and other S3-compatible services
//
// Implementations must be safe for concurrent use.
package blobstore
