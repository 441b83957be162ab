package keeper

import (
	"context"
	"math/big"
	"time"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// Cumulative prices are sums of price*seconds. Prices carry
// types.AmountPrecision fractional digits and the sums wrap modulo 2^256, so
// a time-weighted average is only meaningful as the difference of two
// observations.

var (
	priceScale    = new(big.Int).Exp(big.NewInt(10), big.NewInt(types.AmountPrecision), nil)
	nanosPerSec   = big.NewInt(int64(time.Second))
	cumulativeMod = new(big.Int).Lsh(big.NewInt(1), math.MaxBitLen)
)

// Observation is a reading of a pool's price accumulators.
type Observation struct {
	PriceACumulative math.Int  `json:"price_a_cumulative"`
	PriceBCumulative math.Int  `json:"price_b_cumulative"`
	Timestamp        time.Time `json:"timestamp"`
}

// accumulate adds the price held since the last update to the accumulators.
// It must run before reserves change. A clock reading at or before the last
// update leaves the accumulators and the timestamp alone.
func (p *LiquidityPool) accumulate(now time.Time) {
	if p.lastUpdated.IsZero() {
		p.lastUpdated = now
		return
	}
	if !now.After(p.lastUpdated) {
		return
	}
	if p.reserveA.IsPositive() && p.reserveB.IsPositive() {
		elapsed := big.NewInt(int64(now.Sub(p.lastUpdated)))
		p.priceACumulative = addPrice(p.priceACumulative, p.reserveB, p.reserveA, elapsed)
		p.priceBCumulative = addPrice(p.priceBCumulative, p.reserveA, p.reserveB, elapsed)
	}
	p.lastUpdated = now
}

// addPrice returns cumulative + (num/den)*elapsed, scaled and wrapped.
func addPrice(cumulative, num, den math.Int, elapsedNanos *big.Int) math.Int {
	inc := new(big.Int).Mul(num.BigInt(), priceScale)
	inc.Mul(inc, elapsedNanos)
	inc.Quo(inc, new(big.Int).Mul(den.BigInt(), nanosPerSec))
	inc.Add(inc, cumulative.BigInt())
	return math.NewIntFromBigInt(inc.Mod(inc, cumulativeMod))
}

// Observe returns the accumulators extrapolated to now without changing the pool.
func (p *LiquidityPool) Observe(ctx context.Context, now time.Time) Observation {
	defer p.rlock(ctx)()

	a, b := p.priceACumulative, p.priceBCumulative
	if !p.lastUpdated.IsZero() && now.After(p.lastUpdated) && p.reserveA.IsPositive() && p.reserveB.IsPositive() {
		elapsed := big.NewInt(int64(now.Sub(p.lastUpdated)))
		a = addPrice(a, p.reserveB, p.reserveA, elapsed)
		b = addPrice(b, p.reserveA, p.reserveB, elapsed)
	}
	return Observation{PriceACumulative: a, PriceBCumulative: b, Timestamp: now}
}

// TimeWeightedPrices returns the average price of asset A (in B) and of asset
// B (in A) between two observations of the same pool.
func TimeWeightedPrices(start, end Observation) (priceA, priceB math.LegacyDec, err error) {
	if !end.Timestamp.After(start.Timestamp) {
		return math.LegacyDec{}, math.LegacyDec{}, types.ErrInvalidAmount.Wrap("observations must be strictly ordered in time")
	}
	elapsed := math.LegacyNewDecWithPrec(int64(end.Timestamp.Sub(start.Timestamp)), 9)
	return averageOf(start.PriceACumulative, end.PriceACumulative, elapsed),
		averageOf(start.PriceBCumulative, end.PriceBCumulative, elapsed), nil
}

func averageOf(start, end math.Int, elapsedSeconds math.LegacyDec) math.LegacyDec {
	diff := new(big.Int).Sub(end.BigInt(), start.BigInt())
	diff.Mod(diff, cumulativeMod)
	return math.LegacyNewDecFromBigIntWithPrec(diff, types.AmountPrecision).Quo(elapsedSeconds)
}
