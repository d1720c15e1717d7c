//go:build !unix

package mmap

import (
	"io"
	"os"
)

// Heap-backed fallbacks. Slower to fault in, semantically identical.

func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	return make([]byte, size), func([]byte) error { return nil }, nil
}

func osMapFile(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}
	return data, func([]byte) error { return nil }, nil
}
