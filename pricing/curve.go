// Package pricing implements the constant-sum bonding curve that prices YES
// and NO shares against a pool of virtual liquidity. It has no notion of
// markets, positions, or accounts — it is pure arithmetic over supplies,
// virtual liquidity, and a trade size, isolated from account state the same
// way a parametrized interest-rate formula type carries no engine-wide
// knowledge.
package pricing

import (
	"fmt"

	"streetmkt/fixedpoint"
)

// Side selects which outcome a share, vote, or price quote refers to.
type Side bool

const (
	// NoSide is the NO outcome.
	NoSide Side = false
	// YesSide is the YES outcome.
	YesSide Side = true
)

func (s Side) String() string {
	if s == YesSide {
		return "YES"
	}
	return "NO"
}

// UnitPrice is the invariant sum price_yes + price_no must equal in every
// market, U = 10^16.
var UnitPrice = fixedpoint.FromUint64(10_000_000_000_000_000)

// ShareScale is the fixed-point scale of share quantities, 1e18.
var ShareScale = mustPow10(18)

func mustPow10(n int) fixedpoint.Uint256 {
	out := fixedpoint.One()
	ten := fixedpoint.FromUint64(10)
	for i := 0; i < n; i++ {
		var err error
		out, err = fixedpoint.Mul(out, ten)
		if err != nil {
			panic("pricing: 10^" + fmt.Sprint(n) + " overflows 256 bits")
		}
	}
	return out
}

// Curve is the pricing state of a single market: its outstanding YES and NO
// supplies plus its immutable virtual liquidity. It owns no account data.
type Curve struct {
	YesSupply        fixedpoint.Uint256
	NoSupply         fixedpoint.Uint256
	VirtualLiquidity fixedpoint.Uint256
}

// virtualSupply returns VY = y+v or VN = n+v for the requested side.
func (c Curve) virtualSupply(side Side) (fixedpoint.Uint256, error) {
	supply := c.NoSupply
	if side == YesSide {
		supply = c.YesSupply
	}
	return fixedpoint.Add(supply, c.VirtualLiquidity)
}

// total returns T = VY + VN.
func (c Curve) total() (fixedpoint.Uint256, error) {
	vy, err := c.virtualSupply(YesSide)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	vn, err := c.virtualSupply(NoSide)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	return fixedpoint.Add(vy, vn)
}

// PriceYes returns U * VY / T, floored.
func (c Curve) PriceYes() (fixedpoint.Uint256, error) {
	vy, err := c.virtualSupply(YesSide)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	t, err := c.total()
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	return fixedpoint.MulDiv(UnitPrice, vy, t)
}

// PriceNo returns U * VN / T, floored. Because of flooring this is the
// complement of PriceYes only up to one unit of rounding, documented at the
// call sites that assert the invariant.
func (c Curve) PriceNo() (fixedpoint.Uint256, error) {
	vn, err := c.virtualSupply(NoSide)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	t, err := c.total()
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	return fixedpoint.MulDiv(UnitPrice, vn, t)
}

// Price returns the price of the requested side.
func (c Curve) Price(side Side) (fixedpoint.Uint256, error) {
	if side == YesSide {
		return c.PriceYes()
	}
	return c.PriceNo()
}

// BuyShares returns the number of scaled shares `amount` of post-fee
// collateral purchases on `side`, evaluated at the pre-trade price:
//
//	shares = amount * T * 1e18 / (U * side_virtual)
//
// This is the exact inverse of the pre-trade price function.
func (c Curve) BuyShares(amount fixedpoint.Uint256, side Side) (fixedpoint.Uint256, error) {
	t, err := c.total()
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	sideVirtual, err := c.virtualSupply(side)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	numerator, err := fixedpoint.Mul(amount, t)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	numerator, err = fixedpoint.Mul(numerator, ShareScale)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	denominator, err := fixedpoint.Mul(UnitPrice, sideVirtual)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	return fixedpoint.MulDiv(numerator, fixedpoint.One(), denominator)
}

// ErrSideExhausted is returned when selling would require the chosen side's
// virtual supply or the pool total to go negative: implementations must
// reject if the subtraction would underflow or the divisor would be zero.
var ErrSideExhausted = fixedpoint.ErrOverflow

// SellProceeds returns the gross collateral `shares` of `side` are worth,
// evaluated at the *post-sell* state:
//
//	side_virtual' = side_virtual - shares
//	T'            = T - shares
//	proceeds      = shares * U * side_virtual' / (T' * 1e18)
//
// Pricing the sell at the post-sell state (rather than the pre-sell state
// used for buys) is what prevents an instantaneous buy-then-sell round trip
// from extracting value beyond the trading fees.
func (c Curve) SellProceeds(shares fixedpoint.Uint256, side Side) (fixedpoint.Uint256, error) {
	t, err := c.total()
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	sideVirtual, err := c.virtualSupply(side)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	if shares.GreaterThan(sideVirtual) || shares.GreaterThan(t) {
		return fixedpoint.Uint256{}, ErrSideExhausted
	}
	sideVirtualPrime, err := fixedpoint.Sub(sideVirtual, shares)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	tPrime, err := fixedpoint.Sub(t, shares)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	if tPrime.IsZero() {
		return fixedpoint.Uint256{}, ErrSideExhausted
	}
	numerator, err := fixedpoint.Mul(shares, UnitPrice)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	numerator, err = fixedpoint.Mul(numerator, sideVirtualPrime)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	denominator, err := fixedpoint.Mul(tPrime, ShareScale)
	if err != nil {
		return fixedpoint.Uint256{}, err
	}
	return fixedpoint.MulDiv(numerator, fixedpoint.One(), denominator)
}

// MaxSellable returns the largest share count s <= userShares such that
// SellProceeds(s, side) <= pool, found by binary search over [0, userShares].
// The search selects the upper mid ((low+high+1)/2) so that it always makes
// progress and never stalls when high == low+1.
func (c Curve) MaxSellable(userShares fixedpoint.Uint256, side Side, pool fixedpoint.Uint256) (fixedpoint.Uint256, error) {
	// Invariant: SellProceeds(low) <= pool always holds, since low starts at
	// 0 (zero proceeds). high narrows down from userShares.
	low := fixedpoint.Zero()
	high := userShares
	two := fixedpoint.FromUint64(2)

	for low.LessThan(high) {
		span, err := fixedpoint.Sub(high, low)
		if err != nil {
			return fixedpoint.Uint256{}, err
		}
		spanPlusOne, err := fixedpoint.Add(span, fixedpoint.One())
		if err != nil {
			return fixedpoint.Uint256{}, err
		}
		half, err := fixedpoint.Div(spanPlusOne, two)
		if err != nil {
			return fixedpoint.Uint256{}, err
		}
		mid, err := fixedpoint.Add(low, half) // upper mid: always > low, so the loop makes progress
		if err != nil {
			return fixedpoint.Uint256{}, err
		}

		proceeds, sellErr := c.SellProceeds(mid, side)
		if sellErr == nil && !proceeds.GreaterThan(pool) {
			low = mid
			continue
		}
		high, err = fixedpoint.Sub(mid, fixedpoint.One())
		if err != nil {
			return fixedpoint.Uint256{}, err
		}
	}
	return low, nil
}
