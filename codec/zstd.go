package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses with zstandard at the default level. Good ratio on the
// highly regular difference records and fast enough to keep up with the
// generator.
type Zstd struct{}

// Name implements Codec.
func (Zstd) Name() string { return "zstd" }

// NewWriter implements Codec.
func (Zstd) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

// NewReader implements Codec.
func (Zstd) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}
