// Package codec centralizes the stream compression used by difference
// snapshots.
//
// Snapshots are self-describing: the header stores the codec name, and
// readers resolve it through ByName. Changing a codec's wire format is a
// breaking change for previously written snapshots.
package codec

import "io"

// Codec wraps a byte stream with compression.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name is the stable identifier stored in snapshot headers.
	Name() string
	// NewWriter layers a compressing writer over w. Closing the returned
	// writer flushes the codec frame; it does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// NewReader layers a decompressing reader over r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Default is the codec used when none is configured.
var Default Codec = Zstd{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	case "none":
		return None{}, true
	default:
		return nil, false
	}
}

// None passes bytes through unchanged.
type None struct{}

// Name implements Codec.
func (None) Name() string { return "none" }

// NewWriter implements Codec.
func (None) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

// NewReader implements Codec.
func (None) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
