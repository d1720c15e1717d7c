// Package blobstore abstracts where difference snapshots live: process
// memory for tests, the local file system, or S3-compatible object storage.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error satisfying
// errors.Is(err, ErrNotFound); the default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// Store reads and writes immutable blobs by name.
type Store interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create starts a new blob. The blob becomes visible atomically on
	// Close; a blob abandoned before Close is never observed.
	Create(ctx context.Context, name string) (WritableBlob, error)
}

// Blob is a read-only handle.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the blob length in bytes.
	Size() int64
}

// WritableBlob is a streaming write handle. Close commits the blob.
type WritableBlob interface {
	io.WriteCloser
}

// Reader adapts a Blob to a sequential io.Reader.
func Reader(b Blob) io.Reader {
	return io.NewSectionReader(b, 0, b.Size())
}
