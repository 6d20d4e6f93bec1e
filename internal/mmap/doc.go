// Package mmap maps dataset files read-only into memory.
//
// Local edge lists are parsed straight out of the mapping, so a file is
// never copied into a Go buffer before it is decompressed or tokenized.
// On Unix the package uses mmap(2) and madvise(2); on Windows it uses
// CreateFileMapping and MapViewOfFile, and Advise is a no-op.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but
// callers must not touch the slice returned by Bytes after Close.
package mmap
