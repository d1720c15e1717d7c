// Package snapshot persists the candidate-difference list so a large run
// can be resumed without repeating the generation phase.
//
// Layout: a small uncompressed header (magic, version, codec name, bound,
// record count) followed by the codec-compressed record stream. Records are
// 24 bytes little-endian: diff low limb, diff high limb, c, d. The header
// names its codec, so readers need no out-of-band configuration.
package snapshot

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/quartic/blobstore"
	"github.com/hupe1980/quartic/codec"
	"github.com/hupe1980/quartic/diff"
	"github.com/hupe1980/quartic/internal/uint128"
)

const (
	magic   = "QDIF"
	version = 1

	recordSize = 24
)

// ErrMalformed is returned when a blob is not a readable snapshot.
var ErrMalformed = errors.New("snapshot: malformed")

// Name returns the canonical blob name for a bound.
func Name(maxD uint32) string {
	return fmt.Sprintf("differences-%d.snap", maxD)
}

// Write stores the candidate list under name.
func Write(ctx context.Context, store blobstore.Store, name string, maxD uint32, candidates []diff.Candidate, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}

	blob, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", name, err)
	}
	if err := encode(blob, c, maxD, candidates); err != nil {
		blob.Close()
		return err
	}
	return blob.Close()
}

func encode(w io.Writer, c codec.Codec, maxD uint32, candidates []diff.Candidate) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	if err := writeHeader(bw, c.Name(), maxD, uint64(len(candidates))); err != nil {
		return err
	}

	cw, err := c.NewWriter(bw)
	if err != nil {
		return err
	}

	var rec [recordSize]byte
	for _, cand := range candidates {
		binary.LittleEndian.PutUint64(rec[0:], cand.Diff.Lo)
		binary.LittleEndian.PutUint64(rec[8:], cand.Diff.Hi)
		binary.LittleEndian.PutUint32(rec[16:], cand.C)
		binary.LittleEndian.PutUint32(rec[20:], cand.D)
		if _, err := cw.Write(rec[:]); err != nil {
			return err
		}
	}
	if err := cw.Close(); err != nil {
		return err
	}
	return bw.Flush()
}

// Read loads a snapshot and returns its bound and candidate list.
func Read(ctx context.Context, store blobstore.Store, name string) (uint32, []diff.Candidate, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return 0, nil, err
	}
	defer blob.Close()

	br := bufio.NewReaderSize(blobstore.Reader(blob), 1<<20)
	codecName, maxD, count, err := readHeader(br)
	if err != nil {
		return 0, nil, err
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return 0, nil, fmt.Errorf("%w: unknown codec %q", ErrMalformed, codecName)
	}

	cr, err := c.NewReader(br)
	if err != nil {
		return 0, nil, err
	}
	defer cr.Close()

	candidates := make([]diff.Candidate, 0, count)
	var rec [recordSize]byte
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(cr, rec[:]); err != nil {
			return 0, nil, fmt.Errorf("%w: truncated at record %d: %v", ErrMalformed, i, err)
		}
		candidates = append(candidates, diff.Candidate{
			Diff: uint128.Uint128{
				Lo: binary.LittleEndian.Uint64(rec[0:]),
				Hi: binary.LittleEndian.Uint64(rec[8:]),
			},
			C: binary.LittleEndian.Uint32(rec[16:]),
			D: binary.LittleEndian.Uint32(rec[20:]),
		})
	}
	return maxD, candidates, nil
}

func writeHeader(w io.Writer, codecName string, maxD uint32, count uint64) error {
	if len(codecName) > 255 {
		return fmt.Errorf("snapshot: codec name too long")
	}
	var hdr []byte
	hdr = append(hdr, magic...)
	hdr = append(hdr, version, byte(len(codecName)))
	hdr = append(hdr, codecName...)
	hdr = binary.LittleEndian.AppendUint32(hdr, maxD)
	hdr = binary.LittleEndian.AppendUint64(hdr, count)
	_, err := w.Write(hdr)
	return err
}

func readHeader(r io.Reader) (codecName string, maxD uint32, count uint64, err error) {
	var fixed [6]byte
	if _, err = io.ReadFull(r, fixed[:]); err != nil {
		return "", 0, 0, fmt.Errorf("%w: short header: %v", ErrMalformed, err)
	}
	if string(fixed[:4]) != magic {
		return "", 0, 0, fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	if fixed[4] != version {
		return "", 0, 0, fmt.Errorf("%w: unsupported version %d", ErrMalformed, fixed[4])
	}

	nameBuf := make([]byte, fixed[5])
	if _, err = io.ReadFull(r, nameBuf); err != nil {
		return "", 0, 0, fmt.Errorf("%w: short codec name: %v", ErrMalformed, err)
	}
	var tail [12]byte
	if _, err = io.ReadFull(r, tail[:]); err != nil {
		return "", 0, 0, fmt.Errorf("%w: short header tail: %v", ErrMalformed, err)
	}
	return string(nameBuf), binary.LittleEndian.Uint32(tail[0:]), binary.LittleEndian.Uint64(tail[4:]), nil
}
