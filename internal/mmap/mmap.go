// Package mmap wraps the platform memory-mapping primitives the index and
// the local blob store rely on: large zero-initialised anonymous regions
// for the filter planes, and read-only file mappings for snapshot reads.
package mmap

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned when a mapping is used after Close.
	ErrClosed = errors.New("mmap: closed")
	// ErrInvalidSize is returned for non-positive mapping sizes.
	ErrInvalidSize = errors.New("mmap: invalid size")
)

// Region is a private anonymous mapping. The kernel hands the pages back
// zeroed, which is exactly what a fresh filter plane needs.
type Region struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Anon allocates a zeroed anonymous region of the given size in bytes.
func Anon(size int) (*Region, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	data, unmap, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}
	return &Region{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped slice. It is valid until Close.
func (r *Region) Bytes() []byte {
	if r.closed.Load() {
		return nil
	}
	return r.data
}

// Close releases the region. It is idempotent.
func (r *Region) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	if r.unmap != nil && r.data != nil {
		return r.unmap(r.data)
	}
	return nil
}

// File is a read-only mapping of a file.
type File struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the file at path read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &File{}, nil
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}

	data, unmap, err := osMapFile(f, int(size))
	if err != nil {
		return nil, err
	}
	return &File{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped contents. Valid until Close.
func (m *File) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the length of the mapping.
func (m *File) Size() int64 {
	return int64(len(m.data))
}

// ReadAt implements io.ReaderAt.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file. It is idempotent.
func (m *File) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}
