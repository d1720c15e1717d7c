package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/quartic/internal/mmap"
)

// LocalStore keeps blobs as files under a root directory. Reads are
// memory-mapped; writes go through a temp file renamed into place on Close
// so readers never see a half-written snapshot.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create root: %w", err)
	}
	return &LocalStore{root: dir}, nil
}

// Open implements Store.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	m, err := mmap.Open(filepath.Join(s.root, name))
	if err != nil {
		return nil, err
	}
	return &localBlob{m: m}, nil
}

// Create implements Store.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	f, err := os.CreateTemp(s.root, name+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &localWritableBlob{f: f, final: filepath.Join(s.root, name)}, nil
}

type localBlob struct {
	m *mmap.File
}

func (b *localBlob) ReadAt(p []byte, off int64) (int, error) { return b.m.ReadAt(p, off) }

func (b *localBlob) Size() int64 { return b.m.Size() }

func (b *localBlob) Close() error { return b.m.Close() }

type localWritableBlob struct {
	f     *os.File
	final string
}

func (w *localWritableBlob) Write(p []byte) (int, error) { return w.f.Write(p) }

func (w *localWritableBlob) Close() error {
	if err := w.f.Sync(); err != nil {
		w.f.Close()
		os.Remove(w.f.Name())
		return err
	}
	if err := w.f.Close(); err != nil {
		os.Remove(w.f.Name())
		return err
	}
	return os.Rename(w.f.Name(), w.final)
}
