// Package fixedpoint provides checked 256-bit unsigned integer arithmetic for
// the settlement engine. Every addition, subtraction, multiplication, and
// division fails explicitly on overflow or division by zero instead of
// wrapping silently; multiplication-then-division is always carried out at
// full 512-bit intermediate precision before the final division, so a
// ratio like amount*bps/10_000 never truncates early. All division floors.
//
// The underlying representation is github.com/holiman/uint256.Int, used
// at a chain's state/account boundary to convert big.Int balances to
// native EVM words.
package fixedpoint

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Uint256 wraps uint256.Int with checked operations. The zero value is a
// valid representation of 0.
type Uint256 struct {
	v uint256.Int
}

// Zero returns the additive identity.
func Zero() Uint256 { return Uint256{} }

// One returns the multiplicative identity.
func One() Uint256 { return FromUint64(1) }

// FromUint64 constructs a Uint256 from a native unsigned integer.
func FromUint64(v uint64) Uint256 {
	var u Uint256
	u.v.SetUint64(v)
	return u
}

// FromDecimal parses a base-10 string into a Uint256, failing if the string
// is not a valid nonnegative integer or overflows 256 bits.
func FromDecimal(s string) (Uint256, error) {
	var u Uint256
	if err := u.v.SetFromDecimal(s); err != nil {
		return Uint256{}, fmt.Errorf("fixedpoint: invalid decimal literal %q: %w", s, err)
	}
	return u, nil
}

// String renders the value in base 10.
func (u Uint256) String() string { return u.v.Dec() }

// IsZero reports whether the value is exactly zero.
func (u Uint256) IsZero() bool { return u.v.IsZero() }

// Cmp compares u to other, returning -1, 0, or 1.
func (u Uint256) Cmp(other Uint256) int { return u.v.Cmp(&other.v) }

// LessThan reports whether u < other.
func (u Uint256) LessThan(other Uint256) bool { return u.v.Lt(&other.v) }

// GreaterThan reports whether u > other.
func (u Uint256) GreaterThan(other Uint256) bool { return u.v.Gt(&other.v) }

// Uint64 returns the value truncated to the low 64 bits. Callers must only
// use this once a caller-side bound (e.g. a basis-point constant) guarantees
// the value fits.
func (u Uint256) Uint64() uint64 { return u.v.Uint64() }

// ErrOverflow is returned by checked arithmetic that would wrap around 2^256
// or underflow below zero.
var ErrOverflow = fmt.Errorf("fixedpoint: arithmetic overflow")

// ErrDivByZero is returned by division and modulo operations with a zero
// divisor.
var ErrDivByZero = fmt.Errorf("fixedpoint: division by zero")

// Add returns a+b, failing on overflow.
func Add(a, b Uint256) (Uint256, error) {
	var out Uint256
	_, overflow := out.v.AddOverflow(&a.v, &b.v)
	if overflow {
		return Uint256{}, ErrOverflow
	}
	return out, nil
}

// Sub returns a-b, failing if b > a.
func Sub(a, b Uint256) (Uint256, error) {
	if a.LessThan(b) {
		return Uint256{}, ErrOverflow
	}
	var out Uint256
	out.v.Sub(&a.v, &b.v)
	return out, nil
}

// Mul returns a*b, failing on overflow.
func Mul(a, b Uint256) (Uint256, error) {
	var out Uint256
	_, overflow := out.v.MulOverflow(&a.v, &b.v)
	if overflow {
		return Uint256{}, ErrOverflow
	}
	return out, nil
}

// Div returns a/b floored, failing if b is zero.
func Div(a, b Uint256) (Uint256, error) {
	if b.IsZero() {
		return Uint256{}, ErrDivByZero
	}
	var out Uint256
	out.v.Div(&a.v, &b.v)
	return out, nil
}

// MulDiv computes floor(a*b/c) at full 512-bit intermediate precision, so the
// multiplication never overflows even when a*b alone would exceed 2^256. This
// is the primitive every basis-point fee split and every pricing formula in
// this engine is built from.
//
// uint256.Int.MulDivOverflow already carries out the multiply at 512-bit
// width internally and only checks that the floored quotient itself fits
// back into 256 bits, so a*b may exceed 2^256 as long as the final result
// does not.
func MulDiv(a, b, c Uint256) (Uint256, error) {
	if c.IsZero() {
		return Uint256{}, ErrDivByZero
	}
	var out Uint256
	_, overflow := out.v.MulDivOverflow(&a.v, &b.v, &c.v)
	if overflow {
		return Uint256{}, ErrOverflow
	}
	return out, nil
}

// BasisPoints is the denominator every bps-scaled split in this engine is
// expressed against, following the convention of a routing table whose
// shares must not exceed it.
const BasisPoints = 10_000

// Share returns floor(amount*bps/10_000), the primitive every fee, rebate,
// and bond split in this engine uses. bps is not required to be in range;
// callers validate routing tables sum to at most BasisPoints before calling.
func Share(amount Uint256, bps uint64) (Uint256, error) {
	return MulDiv(amount, FromUint64(bps), FromUint64(BasisPoints))
}

// Min returns the lesser of a and b.
func Min(a, b Uint256) Uint256 {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the greater of a and b.
func Max(a, b Uint256) Uint256 {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// SaturatingSub returns a-b, floored at zero instead of failing when b > a.
// Used where a shortfall should be treated as "nothing left" rather than a
// programmer error (e.g. computing remaining pool balance after rounding).
func SaturatingSub(a, b Uint256) Uint256 {
	if a.LessThan(b) {
		return Zero()
	}
	out, _ := Sub(a, b)
	return out
}
