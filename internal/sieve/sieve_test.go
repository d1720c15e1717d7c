package sieve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quartic/internal/modular"
)

func TestGoodPairsPredicates(t *testing.T) {
	pairs := GoodPairs()
	require.NotEmpty(t, pairs)

	pow4Q := modular.Pow4Table(Q)
	for _, p := range pairs {
		require.Less(t, p.D, uint32(M))
		require.Less(t, p.C, uint32(M))
		require.EqualValues(t, 1, p.D%8)
		require.NotZero(t, p.D%5)
		require.Equal(t, pow4Q[p.D%Q], pow4Q[p.C%Q])
		require.False(t, p.D%3 == 0 && p.C%3 == 0)
		r := p.C % 8
		require.True(t, r == 0 || r == 1 || r == 7, "c residue %d", r)
	}

	// 48000 pairs survive out of M²; the count is pinned, not approximated.
	assert.Len(t, pairs, 48000)
}

func TestGoodPairsComplete(t *testing.T) {
	// Sampled rows: everything missing from the output fails a predicate.
	pairs := GoodPairs()
	member := make(map[Pair]bool, len(pairs))
	for _, p := range pairs {
		member[p] = true
	}

	pow4Q := modular.Pow4Table(Q)
	keeps := func(i, j uint32) bool {
		if i%8 != 1 || i%5 == 0 {
			return false
		}
		if pow4Q[i%Q] != pow4Q[j%Q] {
			return false
		}
		if i%3 == 0 && j%3 == 0 {
			return false
		}
		r := j % 8
		return r == 0 || r == 1 || r == 7
	}
	for _, i := range []uint32{0, 1, 9, 41, 3001, 14993} {
		for j := uint32(0); j < M; j++ {
			require.Equal(t, keeps(i, j), member[Pair{D: i, C: j}], "i=%d j=%d", i, j)
		}
	}
}

func TestGoodPairsContainsElkiesResidues(t *testing.T) {
	// 422481 mod 15000 = 2481, 217519 mod 15000 = 7519.
	pairs := GoodPairs()
	found := false
	for _, p := range pairs {
		if p.D == 422481%M && p.C == 217519%M {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func nuP(n, p uint32) int {
	v := 0
	for n%p == 0 {
		n /= p
		v++
	}
	return v
}

func TestBadValuationsOracle(t *testing.T) {
	const limit = 10000
	b := NewBadValuations(limit)

	primes := []uint32{}
	isComposite := make([]bool, limit+1)
	for p := uint32(2); p <= limit; p++ {
		if isComposite[p] {
			continue
		}
		for q := p * p; q <= limit; q += p {
			isComposite[q] = true
		}
		if p != 2 && p%8 != 1 {
			primes = append(primes, p)
		}
	}

	for n := uint32(1); n <= limit; n++ {
		want := false
		for _, p := range primes {
			if p > n {
				break
			}
			if v := nuP(n, p); v%4 != 0 {
				want = true
				break
			}
		}
		require.Equal(t, want, b.Bad(n), "n=%d", n)
	}
}

func TestBadValuationsSpotChecks(t *testing.T) {
	b := NewBadValuations(100000)

	assert.False(t, b.Bad(1))
	assert.False(t, b.Bad(2))    // only the prime 2
	assert.True(t, b.Bad(3))     // ν_3 = 1
	assert.True(t, b.Bad(27))    // ν_3 = 3
	assert.False(t, b.Bad(81))   // ν_3 = 4
	assert.False(t, b.Bad(17))   // 17 ≡ 1 (mod 8)
	assert.True(t, b.Bad(81*3))  // ν_3 = 5
	assert.False(t, b.Bad(2*17)) // no qualifying prime
	assert.EqualValues(t, 100000, b.Limit())
}
