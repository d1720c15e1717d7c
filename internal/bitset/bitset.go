// Package bitset provides the fixed-size bit planes backing the positive
// filter. Planes are written once during the index build and only read
// afterwards, so there is no synchronisation on the words.
package bitset

import (
	"unsafe"

	"github.com/hupe1980/quartic/internal/mmap"
)

// Plane is a dense bit plane of a fixed size. Large planes come out of an
// anonymous mapping so the pages arrive zeroed and leave in one munmap.
type Plane struct {
	words  []uint64
	nbits  uint64
	region *mmap.Region
}

// mmapThreshold is the plane size in bits at or above which the backing
// moves from the Go heap to an anonymous mapping.
const mmapThreshold = 1 << 20

// New allocates a zeroed plane of nbits bits.
func New(nbits uint64) (*Plane, error) {
	nwords := (nbits + 63) / 64
	if nbits < mmapThreshold {
		return &Plane{words: make([]uint64, nwords), nbits: nbits}, nil
	}

	region, err := mmap.Anon(int(nwords * 8))
	if err != nil {
		return nil, err
	}
	data := region.Bytes()
	words := unsafe.Slice((*uint64)(unsafe.Pointer(&data[0])), nwords)
	return &Plane{words: words, nbits: nbits, region: region}, nil
}

// Set sets bit i. i must be below Len.
func (p *Plane) Set(i uint64) {
	p.words[i>>6] |= 1 << (i & 63)
}

// Test reports whether bit i is set.
func (p *Plane) Test(i uint64) bool {
	return p.words[i>>6]&(1<<(i&63)) != 0
}

// Len returns the plane size in bits.
func (p *Plane) Len() uint64 {
	return p.nbits
}

// Close releases the backing storage.
func (p *Plane) Close() error {
	p.words = nil
	if p.region != nil {
		return p.region.Close()
	}
	return nil
}
