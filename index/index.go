// Package index implements the two-stage membership structure the scan
// queries: a pair of Bloom planes answering "definitely absent" cheaply,
// and an open-addressed table of truncated keys behind them.
//
// Geometry. The filter uses two independent bit planes of 2^B bits
// (k=2 Bloom); the table has 2^K uint32 slots plus a 16-slot linear-probe
// tail, with slot value 0 as the empty sentinel. Stored keys are the low
// 32 bits of the inserted value, so a positive Contains commits the caller
// to an exact 128-bit confirmation against the candidate list.
package index

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/hupe1980/quartic/internal/bitset"
)

const (
	// DefaultFilterBits is the log2 size of each Bloom plane.
	DefaultFilterBits = 28

	// MinHashBits keeps tiny runs from degenerating into probe chains.
	MinHashBits = 16

	// MaxHashBits bounds the table at 2^32 slots (16 GiB); side indices
	// are 32-bit throughout.
	MaxHashBits = 32

	// tailSlots absorbs probe runs that start near the top of the table.
	tailSlots = 16
)

var (
	// ErrZeroKey is returned when a key truncates to the empty sentinel.
	ErrZeroKey = errors.New("index: key truncates to zero")

	// ErrTableFull is returned when an insert cannot leave a trailing
	// sentinel slot. It signals mis-sizing, not a recoverable fault.
	ErrTableFull = errors.New("index: hash table full")
)

// Index is the filter + table pair. Build single-threaded via Insert;
// afterwards it is read-only and safe to share across scan workers.
type Index struct {
	planes     [2]*bitset.Plane
	shift1     uint
	shift2     uint
	slots      []uint32
	slotMask   uint32
	keys       int
	filterBits uint
}

// HashBitsFor returns the smallest table size exponent that keeps the load
// factor below one half for the given key count.
func HashBitsFor(keys int) uint {
	b := uint(bits.Len(uint(keys)) + 1)
	if b < MinHashBits {
		b = MinHashBits
	}
	if b > MaxHashBits {
		b = MaxHashBits
	}
	return b
}

// New allocates an index with 2^filterBits-bit Bloom planes and a
// 2^hashBits-slot table.
func New(filterBits, hashBits uint) (*Index, error) {
	if filterBits < 16 || filterBits > 32 {
		return nil, fmt.Errorf("index: filter bits %d out of range [16,32]", filterBits)
	}
	if hashBits < MinHashBits || hashBits > MaxHashBits {
		return nil, fmt.Errorf("index: hash bits %d out of range [%d,%d]", hashBits, MinHashBits, MaxHashBits)
	}

	ix := &Index{
		shift1:     64 - filterBits,
		shift2:     40 - filterBits,
		slots:      make([]uint32, (uint64(1)<<hashBits)+tailSlots),
		slotMask:   uint32(uint64(1)<<hashBits - 1),
		filterBits: filterBits,
	}
	for i := range ix.planes {
		plane, err := bitset.New(uint64(1) << filterBits)
		if err != nil {
			for _, p := range ix.planes[:i] {
				p.Close()
			}
			return nil, err
		}
		ix.planes[i] = plane
	}
	return ix, nil
}

func (ix *Index) bit1(x uint64) uint64 { return x >> ix.shift1 }

func (ix *Index) bit2(x uint64) uint64 {
	return (x >> ix.shift2) & (uint64(1)<<ix.filterBits - 1)
}

func (ix *Index) probe(x uint64) uint32 {
	mixed := x ^ (x << 24)
	return uint32(mixed>>32) & ix.slotMask
}

// Insert adds x to the filter and the table. x must not truncate to zero.
func (ix *Index) Insert(x uint64) error {
	key := uint32(x)
	if key == 0 {
		return ErrZeroKey
	}

	ix.planes[0].Set(ix.bit1(x))
	ix.planes[1].Set(ix.bit2(x))

	h := ix.probe(x)
	for ix.slots[h] != 0 {
		h++
	}
	// A sentinel slot must remain past every stored key, or probes could
	// run off the end.
	if int(h)+1 >= len(ix.slots) {
		return ErrTableFull
	}
	ix.slots[h] = key
	ix.keys++
	return nil
}

// Contains reports whether x may have been inserted. False is authoritative;
// true can be a truncation collision and needs exact confirmation.
func (ix *Index) Contains(x uint64) bool {
	if !ix.planes[0].Test(ix.bit1(x)) || !ix.planes[1].Test(ix.bit2(x)) {
		return false
	}
	key := uint32(x)
	h := ix.probe(x)
	for ix.slots[h] != 0 && ix.slots[h] != key {
		h++
	}
	return ix.slots[h] != 0
}

// Len returns the number of inserted keys.
func (ix *Index) Len() int {
	return ix.keys
}

// Close releases the filter planes.
func (ix *Index) Close() error {
	var err error
	for _, p := range ix.planes {
		if p != nil {
			if cerr := p.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}
	ix.slots = nil
	return err
}
