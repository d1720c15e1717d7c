// Package uint128 implements the minimal unsigned 128-bit arithmetic the
// search needs: fourth powers of 32-bit integers, differences and sums of
// those, reduction modulo small constants and exact division by small
// constants. All operations are allocation-free and performed modulo 2^128.
package uint128

import (
	"math/bits"
	"strconv"
)

// Uint128 is an unsigned 128-bit integer represented as two 64-bit limbs.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Zero is the zero value, spelled out for readability at call sites.
var Zero = Uint128{}

// From64 returns x as a Uint128.
func From64(x uint64) Uint128 {
	return Uint128{Lo: x}
}

// Mul64 returns the full 128-bit product x*y.
func Mul64(x, y uint64) Uint128 {
	hi, lo := bits.Mul64(x, y)
	return Uint128{Hi: hi, Lo: lo}
}

// Pow4 returns x⁴ as a Uint128. x must be below 2^32 so that x² fits in a
// single limb.
func Pow4(x uint64) Uint128 {
	sq := x * x
	return Mul64(sq, sq)
}

// Add returns u+v modulo 2^128.
func (u Uint128) Add(v Uint128) Uint128 {
	lo, carry := bits.Add64(u.Lo, v.Lo, 0)
	hi, _ := bits.Add64(u.Hi, v.Hi, carry)
	return Uint128{Hi: hi, Lo: lo}
}

// Sub returns u-v modulo 2^128.
func (u Uint128) Sub(v Uint128) Uint128 {
	lo, borrow := bits.Sub64(u.Lo, v.Lo, 0)
	hi, _ := bits.Sub64(u.Hi, v.Hi, borrow)
	return Uint128{Hi: hi, Lo: lo}
}

// Cmp returns -1, 0 or 1 depending on whether u is below, equal to or above v.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// Eq reports whether u == v.
func (u Uint128) Eq(v Uint128) bool {
	return u.Hi == v.Hi && u.Lo == v.Lo
}

// IsZero reports whether u == 0.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// Mod64 returns u mod m for m > 0.
func (u Uint128) Mod64(m uint64) uint64 {
	_, rem := bits.Div64(u.Hi%m, u.Lo, m)
	return rem
}

// Div64 returns the quotient and remainder of u divided by m for m > 0.
// The quotient is exact when m divides u; the caller checks the remainder
// when that matters.
func (u Uint128) Div64(m uint64) (Uint128, uint64) {
	qHi := u.Hi / m
	qLo, rem := bits.Div64(u.Hi%m, u.Lo, m)
	return Uint128{Hi: qHi, Lo: qLo}, rem
}

// String renders u in decimal.
func (u Uint128) String() string {
	if u.Hi == 0 {
		return strconv.FormatUint(u.Lo, 10)
	}
	// Peel 19 decimal digits at a time; at most three rounds for 2^128.
	const chunk = 1e19
	var buf [40]byte
	out := len(buf)
	v := u
	for v.Hi != 0 {
		q, r := v.Div64(chunk)
		for i := 0; i < 19; i++ {
			out--
			buf[out] = byte('0' + r%10)
			r /= 10
		}
		v = q
	}
	rest := strconv.FormatUint(v.Lo, 10)
	out -= len(rest)
	copy(buf[out:], rest)
	return string(buf[out:])
}
