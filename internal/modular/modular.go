// Package modular precomputes the residue tables the sieves and the
// candidate generator query: fourth powers modulo m and the image of
// x⁴+y⁴ modulo m.
package modular

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Pow4Table returns the table p with p[x] = x⁴ mod m for x in [0,m).
// m must be small enough that m² fits in 64 bits; every modulus the
// search uses is below 2^16.
func Pow4Table(m uint32) []uint32 {
	table := make([]uint32, m)
	mm := uint64(m)
	for x := uint64(0); x < mm; x++ {
		sq := (x * x) % mm
		table[x] = uint32((sq * sq) % mm)
	}
	return table
}

// SumOfTwoQuartics returns the set of residues s mod m for which the
// congruence x⁴ + y⁴ ≡ s (mod m) has a solution. The build is O(m²); the
// callers run it once per modulus at startup and query Contains afterwards.
func SumOfTwoQuartics(m uint32) *roaring.Bitmap {
	pow4 := Pow4Table(m)
	set := roaring.New()
	for i := uint32(0); i < m; i++ {
		for j := uint32(0); j < m; j++ {
			s := pow4[i] + pow4[j]
			if s >= m {
				s -= m
			}
			set.Add(s)
		}
	}
	return set
}

// QuarticModuli are the prime powers whose sum-of-two-fourth-powers image is
// a proper subset of the residues, in the order the generator tests them.
// 2⁸, 3⁶, 7³, 11², 13², 29².
var QuarticModuli = [...]uint32{256, 729, 343, 121, 169, 841}
