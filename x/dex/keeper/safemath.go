package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// Intermediate products of two 256-bit values need up to 512 bits, so every
// multiplication happens on big.Int and only results are narrowed back to
// math.Int through fromBig.

// fromBig narrows an intermediate result to math.Int.
func fromBig(v *big.Int) (math.Int, error) {
	if v.Sign() < 0 {
		return math.Int{}, types.ErrOverflow.Wrapf("negative result %s", v)
	}
	if v.BitLen() > math.MaxBitLen {
		return math.Int{}, types.ErrOverflow.Wrapf("result needs %d bits", v.BitLen())
	}
	return math.NewIntFromBigInt(v), nil
}

// SafeAdd adds two math.Int values with overflow checking
func SafeAdd(a, b math.Int) (math.Int, error) {
	return fromBig(new(big.Int).Add(a.BigInt(), b.BigInt()))
}

// SafeSub subtracts two math.Int values with underflow checking
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, types.ErrOverflow.Wrapf("underflow: cannot subtract %s from %s", b, a)
	}
	return a.Sub(b), nil
}

// SafeMulDiv computes floor(a*b/c) without bounding the intermediate product.
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("division by zero")
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	return fromBig(product.Quo(product, c.BigInt()))
}

// mulDivCeil computes ceil(a*b/c) on big.Int; c must be positive.
func mulDivCeil(a, b, c *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(new(big.Int).Mul(a, b), c, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// sqrtProduct returns floor(sqrt(a*b)).
func sqrtProduct(a, b math.Int) (math.Int, error) {
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	return fromBig(product.Sqrt(product))
}

// product returns a*b as an unbounded big.Int.
func product(a, b math.Int) *big.Int {
	return new(big.Int).Mul(a.BigInt(), b.BigInt())
}

func minInt(a, b math.Int) math.Int {
	if a.LT(b) {
		return a
	}
	return b
}
