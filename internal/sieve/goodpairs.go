// Package sieve holds the two precomputed prunes of the candidate search:
// the residue-pair sieve modulo M and the prime-valuation bitmap.
package sieve

import (
	"github.com/hupe1980/quartic/internal/modular"
)

// Residue moduli of the pair sieve. Q captures the divisibility of a and b
// by 5; M folds in the mod-8 and mod-3 structure.
const (
	Q = 625
	M = 24 * Q // 15000
)

// Pair is a surviving residue pair (D, C) with D ≡ d (mod M) and
// C ≡ c (mod M).
type Pair struct {
	D uint32
	C uint32
}

// GoodPairs enumerates the residue pairs (i,j) in [0,M)² that a primitive
// solution with 5|a, 5|b can occupy, with d ≡ i and c ≡ j (mod M).
//
// The kept pairs satisfy all of:
//   - i ≡ 1 (mod 8): d is odd, and Ward's classification pins d mod 8.
//   - i ≢ 0 (mod 5): two of a,b,c carry the factors of 5, never d.
//   - i⁴ ≡ j⁴ (mod 625): consequence of 5|a and 5|b.
//   - not both 3|i and 3|j: a⁴+b⁴ ≡ 0 (mod 9) would contradict primitivity.
//   - j mod 8 ∈ {0,1,7}: Ward's residues for c once a,b absorb the 5s.
func GoodPairs() []Pair {
	pow4Q := modular.Pow4Table(Q)

	var pairs []Pair
	for i := uint32(0); i < M; i++ {
		if i%8 != 1 {
			continue
		}
		if i%5 == 0 {
			continue
		}
		for j := uint32(0); j < M; j++ {
			if pow4Q[i%Q] != pow4Q[j%Q] {
				continue
			}
			if i%3 == 0 && j%3 == 0 {
				continue
			}
			if r := j % 8; r != 0 && r != 1 && r != 7 {
				continue
			}
			pairs = append(pairs, Pair{D: i, C: j})
		}
	}
	return pairs
}
