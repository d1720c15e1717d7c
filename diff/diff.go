// Package diff enumerates the candidate values d⁴−c⁴ that survive the
// modular and valuation prunes, together with the (c,d) that produced them.
// The surviving set is what the pairwise-sum scan is matched against.
package diff

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/quartic/internal/modular"
	"github.com/hupe1980/quartic/internal/sieve"
	"github.com/hupe1980/quartic/internal/uint128"
)

// MaxBound is the largest supported search bound. The valuation sieve runs
// to 2·maxD, which must stay within 32 bits.
const MaxBound = math.MaxUint32 / 2

// ErrBoundTooLarge is returned when maxD exceeds MaxBound.
var ErrBoundTooLarge = errors.New("diff: bound exceeds supported range")

// Candidate is one surviving difference: Diff = D⁴ − C⁴ with 0 < C < D.
type Candidate struct {
	Diff uint128.Uint128
	C    uint32
	D    uint32
}

// Stats reports how hard the prunes worked.
type Stats struct {
	GoodPairs  int
	Candidates int
}

// Options configures Generate.
type Options struct {
	// Logger receives progress and summary lines. Defaults to slog.Default().
	Logger *slog.Logger
}

// Generate returns every candidate difference for 0 < c < d ≤ maxD.
//
// The outer loop walks the good residue pairs and the inner loops lift them
// by multiples of M; keeping the lift innermost keeps the per-pair modular
// tables hot in cache.
func Generate(maxD uint32, optFns ...func(o *Options)) ([]Candidate, Stats, error) {
	opts := Options{Logger: slog.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}

	if maxD > MaxBound {
		return nil, Stats{}, fmt.Errorf("%w: %d > %d", ErrBoundTooLarge, maxD, MaxBound)
	}

	pairs := sieve.GoodPairs()
	opts.Logger.Info("good pairs sieved",
		"count", len(pairs),
		"percent", 100*float64(len(pairs))/float64(sieve.M)/float64(sieve.M))

	bad := sieve.NewBadValuations(2 * maxD)

	pow4At4096 := modular.Pow4Table(4096)
	pow4 := make([][]uint32, len(modular.QuarticModuli))
	sums := make([]*roaring.Bitmap, len(modular.QuarticModuli))
	for i, m := range modular.QuarticModuli {
		pow4[i] = modular.Pow4Table(m)
		sums[i] = modular.SumOfTwoQuartics(m)
	}

	var out []Candidate
	for _, pair := range pairs {
		k, l := pair.D, pair.C
		for iq := uint32(0); uint64(sieve.M)*uint64(iq) <= uint64(maxD); iq++ {
			d := sieve.M*iq + k
			if d > maxD {
				break
			}
			for jq := uint32(0); jq <= iq; jq++ {
				c := sieve.M*jq + l
				if c == 0 || c >= d {
					continue
				}

				if cand, ok := check(c, d, bad, pow4At4096, pow4, sums); ok {
					out = append(out, cand)
				}
			}
		}
	}

	stats := Stats{GoodPairs: len(pairs), Candidates: len(out)}
	opts.Logger.Info("candidate differences generated",
		"count", len(out),
		"percent", 100*float64(len(out))/float64(maxD)/float64(maxD))
	return out, stats, nil
}

// check runs the per-pair filters in cheapest-first order and builds the
// exact difference for survivors.
func check(c, d uint32, bad *sieve.BadValuations, pow4At4096 []uint32, pow4 [][]uint32, sums []*roaring.Bitmap) (Candidate, bool) {
	// Morgan: for odd c, a primitive solution forces d⁴ ≡ c⁴ (mod 4096).
	if c%2 == 1 && pow4At4096[d%4096] != pow4At4096[c%4096] {
		return Candidate{}, false
	}

	// Lifting the exponent: d∓c must not carry a stray valuation at any
	// odd prime p ≢ 1 (mod 8).
	if bad.Bad(d-c) || bad.Bad(d+c) {
		return Candidate{}, false
	}

	// d⁴−c⁴ must lie in the x⁴+y⁴ image at each tested prime power.
	for i, m := range modular.QuarticModuli {
		delta := (pow4[i][d%m] + m - pow4[i][c%m]) % m
		if !sums[i].Contains(delta) {
			return Candidate{}, false
		}
	}

	delta := uint128.Pow4(uint64(d)).Sub(uint128.Pow4(uint64(c)))

	// 625 divides the difference by construction; a fifth factor of 5 is
	// only admissible when ν₅ reaches a multiple of 4 again.
	if delta.Mod64(3125) == 0 && delta.Mod64(390625) != 0 {
		return Candidate{}, false
	}

	return Candidate{Diff: delta, C: c, D: d}, true
}
