package codec

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4 trades ratio for speed; useful when the snapshot target is a local
// disk rather than object storage.
type LZ4 struct{}

// Name implements Codec.
func (LZ4) Name() string { return "lz4" }

// NewWriter implements Codec.
func (LZ4) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

// NewReader implements Codec.
func (LZ4) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
