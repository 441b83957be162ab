package keeper

import (
	"context"
	"time"

	"cosmossdk.io/math"
	"go.opentelemetry.io/otel/attribute"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// Router is the caller-facing entry point: deadline and slippage envelopes,
// lazy pool creation and multi-hop trades over caller-supplied paths.
type Router struct {
	k *Keeper
}

// NewRouter creates a router over the pools of k.
func NewRouter(k *Keeper) *Router {
	return &Router{k: k}
}

// Keeper returns the registry the router trades against.
func (r *Router) Keeper() *Keeper {
	return r.k
}

func (r *Router) checkDeadline(deadline time.Time) error {
	if now := r.k.now(); now.After(deadline) {
		return types.ErrExpired.Wrapf("deadline %s passed, now %s", deadline.UTC().Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	}
	return nil
}

// GetAmountsOut quotes selling amountIn along path. amounts[0] is amountIn and
// amounts[i+1] the output of hop i. No state changes.
func (r *Router) GetAmountsOut(ctx context.Context, amountIn math.Int, path types.SwapPath) ([]math.Int, error) {
	if err := validatePositive("amount in", amountIn); err != nil {
		return nil, err
	}
	pools, err := r.k.resolvePath(path)
	if err != nil {
		return nil, err
	}
	var amounts []math.Int
	err = r.k.withPoolsRead(ctx, pools, func() error {
		_, amounts, err = r.k.simulateExactIn(pools, path, amountIn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return amounts, nil
}

// GetAmountsIn quotes the inputs needed along path to receive amountOut.
// amounts[0] is the smallest sufficient input. The last entry is amountOut,
// or slightly more when path crosses a pool twice.
func (r *Router) GetAmountsIn(ctx context.Context, amountOut math.Int, path types.SwapPath) ([]math.Int, error) {
	if err := validatePositive("amount out", amountOut); err != nil {
		return nil, err
	}
	pools, err := r.k.resolvePath(path)
	if err != nil {
		return nil, err
	}
	var amounts []math.Int
	err = r.k.withPoolsRead(ctx, pools, func() error {
		amounts, err = r.k.simulateExactOut(pools, path, amountOut)
		return err
	})
	if err != nil {
		return nil, err
	}
	return amounts, nil
}

// AddLiquidity deposits into the pool of {assetA, assetB}, creating it when it
// does not exist yet. Amounts and the result are in the caller's asset order.
func (r *Router) AddLiquidity(
	ctx context.Context,
	provider, assetA, assetB string,
	amountADesired, amountBDesired, amountAMin, amountBMin math.Int,
	recipient string,
	deadline time.Time,
) (res types.AddLiquidityResult, err error) {
	ctx, span := r.k.startSpan(ctx, "add_liquidity",
		attribute.String("dex.provider", provider), attribute.String("dex.asset_a", assetA), attribute.String("dex.asset_b", assetB))
	defer func() { endSpan(span, err) }()

	if err := r.checkDeadline(deadline); err != nil {
		return types.AddLiquidityResult{}, err
	}
	key, err := types.NewPairKey(assetA, assetB)
	if err != nil {
		return types.AddLiquidityResult{}, err
	}
	flipped := assetA != key.AssetA
	if flipped {
		amountADesired, amountBDesired = amountBDesired, amountADesired
		amountAMin, amountBMin = amountBMin, amountAMin
	}

	pool, created, err := r.k.resolveForDeposit(key)
	if err != nil {
		return types.AddLiquidityResult{}, err
	}

	if created {
		res, err = r.depositIntoPending(ctx, pool, provider, recipient, amountADesired, amountBDesired, amountAMin, amountBMin)
	} else {
		err = r.k.withPools(ctx, "add_liquidity", []*LiquidityPool{pool}, func(ctx context.Context) error {
			if pool.abandoned {
				return types.ErrPairNotFound.Wrapf("creation of %s by a concurrent call was rolled back", key)
			}
			var err error
			res, err = pool.addLiquidityLocked(ctx, provider, recipient, amountADesired, amountBDesired, amountAMin, amountBMin)
			return err
		})
	}
	if err != nil {
		return types.AddLiquidityResult{}, err
	}

	if created {
		r.k.afterPairCreated(ctx, pool)
	}
	r.k.afterLiquidityChanged(ctx, pool, provider, res.AmountA, res.AmountB, true)
	if flipped {
		res.AmountA, res.AmountB = res.AmountB, res.AmountA
	}
	return res, nil
}

// depositIntoPending makes the first deposit into a pool returned locked by
// resolveForDeposit and publishes the pool only if the deposit settles.
func (r *Router) depositIntoPending(ctx context.Context, pool *LiquidityPool, provider, recipient string, amountADesired, amountBDesired, amountAMin, amountBMin math.Int) (res types.AddLiquidityResult, err error) {
	published := false
	defer func() {
		if !published {
			r.k.finishPending(pool, false)
		}
		pool.mu.Unlock()
	}()

	res, err = pool.addLiquidityLocked(withHeld(ctx, []*LiquidityPool{pool}), provider, recipient, amountADesired, amountBDesired, amountAMin, amountBMin)
	if err != nil {
		return types.AddLiquidityResult{}, err
	}
	r.k.finishPending(pool, true)
	published = true
	res.PoolId = pool.id
	return res, nil
}

// RemoveLiquidity burns shares of the pool of {assetA, assetB}. Minimums and
// the result are in the caller's asset order.
func (r *Router) RemoveLiquidity(
	ctx context.Context,
	provider, assetA, assetB string,
	shares, amountAMin, amountBMin math.Int,
	recipient string,
	deadline time.Time,
) (res types.RemoveLiquidityResult, err error) {
	ctx, span := r.k.startSpan(ctx, "remove_liquidity",
		attribute.String("dex.provider", provider), attribute.String("dex.asset_a", assetA), attribute.String("dex.asset_b", assetB))
	defer func() { endSpan(span, err) }()

	if err := r.checkDeadline(deadline); err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	key, err := types.NewPairKey(assetA, assetB)
	if err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	pool, ok := r.k.GetPair(assetA, assetB)
	if !ok {
		return types.RemoveLiquidityResult{}, types.ErrPairNotFound.Wrapf("%s", key)
	}
	flipped := assetA != key.AssetA
	if flipped {
		amountAMin, amountBMin = amountBMin, amountAMin
	}

	res, err = pool.RemoveLiquidity(ctx, provider, recipient, shares, amountAMin, amountBMin)
	if err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	if flipped {
		res.AmountA, res.AmountB = res.AmountB, res.AmountA
	}
	return res, nil
}

// SwapExactTokensForTokens sells exactly amountIn of path[0] and delivers at
// least amountOutMin of the last asset of path to recipient.
func (r *Router) SwapExactTokensForTokens(
	ctx context.Context,
	trader string,
	amountIn, amountOutMin math.Int,
	path types.SwapPath,
	recipient string,
	deadline time.Time,
) (types.SwapResult, error) {
	ctx, span := r.k.startSpan(ctx, "swap_exact_in", attribute.String("dex.trader", trader), pathAttr(path))
	start := time.Now()
	res, hops, err := r.swapExactIn(ctx, trader, amountIn, amountOutMin, path, recipient, deadline)
	r.k.recordSwap(start, err)
	endSpan(span, err)
	if err != nil {
		return types.SwapResult{}, err
	}
	r.k.afterSwap(ctx, trader, hops)
	return res, nil
}

func (r *Router) swapExactIn(ctx context.Context, trader string, amountIn, amountOutMin math.Int, path types.SwapPath, recipient string, deadline time.Time) (types.SwapResult, []executedHop, error) {
	if err := r.checkDeadline(deadline); err != nil {
		return types.SwapResult{}, nil, err
	}
	if err := validateAccounts(trader, recipient); err != nil {
		return types.SwapResult{}, nil, err
	}
	if err := validatePositive("amount in", amountIn); err != nil {
		return types.SwapResult{}, nil, err
	}
	if err := validateNonNegative("amount out min", amountOutMin); err != nil {
		return types.SwapResult{}, nil, err
	}
	pools, err := r.k.resolvePath(path)
	if err != nil {
		return types.SwapResult{}, nil, err
	}

	var (
		hops    []executedHop
		amounts []math.Int
	)
	err = r.k.withPools(ctx, "swap_exact_in", pools, func(ctx context.Context) error {
		var err error
		hops, amounts, err = r.k.simulateExactIn(pools, path, amountIn)
		if err != nil {
			return err
		}
		if out := amounts[len(amounts)-1]; out.LT(amountOutMin) {
			return types.ErrSlippage.Wrapf("output %s%s below minimum %s", out, path[len(path)-1], amountOutMin)
		}
		return r.k.executeHops(ctx, "swap_exact_in", trader, recipient, hops)
	})
	if err != nil {
		return types.SwapResult{}, nil, err
	}
	return types.SwapResult{Path: path, Amounts: amounts}, hops, nil
}

// SwapTokensForExactTokens buys exactly amountOut of the last asset of path,
// spending at most amountInMax of path[0]. When path crosses a pool twice the
// delivered amount can exceed amountOut; it is never below it.
func (r *Router) SwapTokensForExactTokens(
	ctx context.Context,
	trader string,
	amountOut, amountInMax math.Int,
	path types.SwapPath,
	recipient string,
	deadline time.Time,
) (types.SwapResult, error) {
	ctx, span := r.k.startSpan(ctx, "swap_exact_out", attribute.String("dex.trader", trader), pathAttr(path))
	start := time.Now()
	res, hops, err := r.swapExactOut(ctx, trader, amountOut, amountInMax, path, recipient, deadline)
	r.k.recordSwap(start, err)
	endSpan(span, err)
	if err != nil {
		return types.SwapResult{}, err
	}
	r.k.afterSwap(ctx, trader, hops)
	return res, nil
}

func (r *Router) swapExactOut(ctx context.Context, trader string, amountOut, amountInMax math.Int, path types.SwapPath, recipient string, deadline time.Time) (types.SwapResult, []executedHop, error) {
	if err := r.checkDeadline(deadline); err != nil {
		return types.SwapResult{}, nil, err
	}
	if err := validateAccounts(trader, recipient); err != nil {
		return types.SwapResult{}, nil, err
	}
	if err := validatePositive("amount out", amountOut); err != nil {
		return types.SwapResult{}, nil, err
	}
	if err := validateNonNegative("amount in max", amountInMax); err != nil {
		return types.SwapResult{}, nil, err
	}
	pools, err := r.k.resolvePath(path)
	if err != nil {
		return types.SwapResult{}, nil, err
	}

	var (
		hops    []executedHop
		amounts []math.Int
	)
	err = r.k.withPools(ctx, "swap_exact_out", pools, func(ctx context.Context) error {
		required, err := r.k.simulateExactOut(pools, path, amountOut)
		if err != nil {
			return err
		}
		if required[0].GT(amountInMax) {
			return types.ErrSlippage.Wrapf("input %s%s exceeds maximum %s", required[0], path[0], amountInMax)
		}
		hops, amounts, err = r.k.simulateExactIn(pools, path, required[0])
		if err != nil {
			return err
		}
		if out := amounts[len(amounts)-1]; out.LT(amountOut) {
			return types.ErrSlippage.Wrapf("output %s%s below requested %s", out, path[len(path)-1], amountOut)
		}
		return r.k.executeHops(ctx, "swap_exact_out", trader, recipient, hops)
	})
	if err != nil {
		return types.SwapResult{}, nil, err
	}
	return types.SwapResult{Path: path, Amounts: amounts}, hops, nil
}

// Quote returns the amount of assetB worth amountA of assetA at the current
// reserve ratio of their pool, before fees.
func (r *Router) Quote(ctx context.Context, amountA math.Int, assetA, assetB string) (math.Int, error) {
	pool, ok := r.k.GetPair(assetA, assetB)
	if !ok {
		return math.Int{}, types.ErrPairNotFound.Wrapf("%s/%s", assetA, assetB)
	}
	defer pool.rlock(ctx)()
	reserveA, reserveB, _, err := pool.reservesFor(assetA)
	if err != nil {
		return math.Int{}, err
	}
	return Quote(amountA, reserveA, reserveB)
}
