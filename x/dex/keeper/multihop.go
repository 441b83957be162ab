package keeper

import (
	"context"
	"math/big"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// executedHop is one priced leg of a trade.
type executedHop struct {
	pool              *LiquidityPool
	assetIn, assetOut string
	amountIn          math.Int
	amountOut         math.Int
}

// resolvePath maps every hop of path to its pool. It never searches for
// alternatives: a missing pool fails the whole path.
func (k *Keeper) resolvePath(path types.SwapPath) ([]*LiquidityPool, error) {
	if err := path.Validate(k.params.MaxHops); err != nil {
		return nil, err
	}
	pools := make([]*LiquidityPool, path.Hops())
	for i := range pools {
		pool, ok := k.GetPair(path[i], path[i+1])
		if !ok {
			return nil, types.ErrNoPoolForHop.Wrapf("hop %d: %s -> %s", i, path[i], path[i+1])
		}
		pools[i] = pool
	}
	return pools, nil
}

// simulateExactIn prices path hop by hop, feeding each output into the next
// hop. A pool crossed twice is priced against the reserves the earlier hop
// leaves behind, so the result is exactly what execution produces. The caller
// holds at least the read locks of pools.
func (k *Keeper) simulateExactIn(pools []*LiquidityPool, path types.SwapPath, amountIn math.Int) ([]executedHop, []math.Int, error) {
	type reserves struct{ a, b math.Int }
	virtual := make(map[*LiquidityPool]reserves, len(pools))

	amounts := make([]math.Int, len(path))
	amounts[0] = amountIn
	hops := make([]executedHop, 0, len(pools))
	for i, pool := range pools {
		r, ok := virtual[pool]
		if !ok {
			r = reserves{pool.reserveA, pool.reserveB}
		}
		inIsA := path[i] == pool.key.AssetA
		reserveIn, reserveOut := r.a, r.b
		if !inIsA {
			reserveIn, reserveOut = r.b, r.a
		}

		out, err := GetAmountOut(amounts[i], reserveIn, reserveOut, k.params.SwapFee)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "hop %d (%s -> %s)", i, path[i], path[i+1])
		}
		if out.IsZero() {
			return nil, nil, types.ErrInsufficientOutputAmount.Wrapf("hop %d (%s -> %s) yields nothing for %s", i, path[i], path[i+1], amounts[i])
		}
		newIn, err := SafeAdd(reserveIn, amounts[i])
		if err != nil {
			return nil, nil, err
		}
		if inIsA {
			virtual[pool] = reserves{newIn, reserveOut.Sub(out)}
		} else {
			virtual[pool] = reserves{reserveOut.Sub(out), newIn}
		}

		amounts[i+1] = out
		hops = append(hops, executedHop{pool: pool, assetIn: path[i], assetOut: path[i+1], amountIn: amounts[i], amountOut: out})
	}
	return hops, amounts, nil
}

// simulateExactOut computes the inputs needed along path to receive
// amountOut. Paths that cross each pool once are walked backwards, hop by
// hop. A pool crossed twice is priced differently on its later crossing, so
// for those paths the input is searched for with simulateExactIn and the
// returned amounts are exactly what execution produces; the last entry may
// then exceed amountOut. The caller holds at least the read locks of pools.
func (k *Keeper) simulateExactOut(pools []*LiquidityPool, path types.SwapPath, amountOut math.Int) ([]math.Int, error) {
	amounts, err := k.walkExactOut(pools, path, amountOut)
	if !crossesPoolTwice(pools) {
		return amounts, err
	}
	hint := amountOut
	if err == nil {
		hint = amounts[0]
	}
	return k.searchExactOut(pools, path, amountOut, hint)
}

// walkExactOut prices every hop backwards against current reserves.
func (k *Keeper) walkExactOut(pools []*LiquidityPool, path types.SwapPath, amountOut math.Int) ([]math.Int, error) {
	amounts := make([]math.Int, len(path))
	amounts[len(path)-1] = amountOut
	for i := len(pools) - 1; i >= 0; i-- {
		reserveIn, reserveOut, _, err := pools[i].reservesFor(path[i])
		if err != nil {
			return nil, err
		}
		in, err := GetAmountIn(amounts[i+1], reserveIn, reserveOut, k.params.SwapFee)
		if err != nil {
			return nil, errors.Wrapf(err, "hop %d (%s -> %s)", i, path[i], path[i+1])
		}
		amounts[i] = in
	}
	return amounts, nil
}

// searchExactOut finds the smallest input whose forward simulation delivers
// at least amountOut. Output grows with input up to rounding, so the result
// is the point where one unit less falls short. hint seeds the upper bound.
func (k *Keeper) searchExactOut(pools []*LiquidityPool, path types.SwapPath, amountOut, hint math.Int) ([]math.Int, error) {
	delivers := func(amountIn *big.Int) ([]math.Int, bool) {
		_, amounts, err := k.simulateExactIn(pools, path, math.NewIntFromBigInt(amountIn))
		if err != nil || amounts[len(amounts)-1].LT(amountOut) {
			return nil, false
		}
		return amounts, true
	}

	hi := new(big.Int).Set(hint.BigInt())
	best, ok := delivers(hi)
	for !ok {
		hi.Lsh(hi, 1)
		if hi.BitLen() > math.MaxBitLen {
			return nil, types.ErrInsufficientLiquidity.Wrapf("no input along %s delivers %s", path, amountOut)
		}
		best, ok = delivers(hi)
	}

	lo := big.NewInt(0)
	one := big.NewInt(1)
	for new(big.Int).Sub(hi, lo).Cmp(one) > 0 {
		mid := new(big.Int).Add(lo, hi)
		mid.Rsh(mid, 1)
		if amounts, ok := delivers(mid); ok {
			hi, best = mid, amounts
		} else {
			lo = mid
		}
	}
	return best, nil
}

func crossesPoolTwice(pools []*LiquidityPool) bool {
	seen := make(map[*LiquidityPool]struct{}, len(pools))
	for _, pool := range pools {
		if _, ok := seen[pool]; ok {
			return true
		}
		seen[pool] = struct{}{}
	}
	return false
}

// executeHops applies priced hops and settles the trade: the first input is
// pulled from trader and the last output paid to recipient, intermediate
// amounts never leave custody. The caller holds the write locks of every pool.
func (k *Keeper) executeHops(ctx context.Context, operation, trader, recipient string, hops []executedHop) error {
	snaps := make(map[*LiquidityPool]poolSnapshot, len(hops))
	for _, h := range hops {
		if _, ok := snaps[h.pool]; !ok {
			snaps[h.pool] = h.pool.snapshot()
		}
	}
	restoreAll := func() {
		for pool, snap := range snaps {
			pool.restore(snap)
		}
	}

	now := k.now()
	for i, h := range hops {
		_, span := k.tracer.Start(ctx, "dex.hop", trace.WithAttributes(
			append(hopAttrs(h), attribute.Int("dex.hop", i))...))
		err := h.pool.applySwapLocked(now, h.assetIn, h.amountIn, h.amountOut)
		endSpan(span, err)
		if err != nil {
			restoreAll()
			return err
		}
	}

	first, last := hops[0], hops[len(hops)-1]
	s := k.newSettlement()
	if err := s.pull(ctx, trader, first.assetIn, first.amountIn); err != nil {
		restoreAll()
		return err
	}
	if err := s.pay(ctx, recipient, last.assetOut, last.amountOut); err != nil {
		s.revert(ctx, operation)
		restoreAll()
		return err
	}
	return nil
}
