package sieve

// BadValuations marks the integers n in [0, limit] for which some odd prime
// p with p mod 8 ∈ {3,5,7} has ν_p(n) not a multiple of 4. By the
// lifting-the-exponent lemma such an n can never occur as d−c or d+c in a
// primitive solution, so the generator drops the pair outright.
//
// The map is a dense bitmap; the generator probes it twice per surviving
// lifted pair.
type BadValuations struct {
	bits  []uint64
	limit uint32
}

// NewBadValuations sieves [2, limit] with a sieve of Eratosthenes,
// computing ν_p(n) mod 4 exactly for every qualifying prime p.
func NewBadValuations(limit uint32) *BadValuations {
	b := &BadValuations{
		bits:  make([]uint64, uint64(limit)/64+1),
		limit: limit,
	}
	if limit < 3 {
		return b
	}

	composite := make([]bool, limit+1)
	for p := uint32(2); p <= limit; p++ {
		if composite[p] {
			continue
		}
		for q := uint64(p) * uint64(p); q <= uint64(limit); q += uint64(p) {
			composite[q] = true
		}
		if p == 2 || p%8 == 1 {
			continue
		}
		for n := uint64(p); n <= uint64(limit); n += uint64(p) {
			v := 1
			for m := n / uint64(p); m%uint64(p) == 0; m /= uint64(p) {
				v++
			}
			if v%4 != 0 {
				b.set(uint32(n))
			}
		}
	}
	return b
}

func (b *BadValuations) set(n uint32) {
	b.bits[n>>6] |= 1 << (n & 63)
}

// Bad reports whether n carries a disqualifying prime valuation.
// n must be within [0, limit].
func (b *BadValuations) Bad(n uint32) bool {
	return b.bits[n>>6]&(1<<(n&63)) != 0
}

// Limit returns the top of the sieved range.
func (b *BadValuations) Limit() uint32 {
	return b.limit
}
