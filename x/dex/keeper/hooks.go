package keeper

import (
	"context"
	"math/big"
	"strconv"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// The after* helpers run once an operation has settled and released its
// locks. They record metrics, log, and notify hooks. A failing hook cannot
// undo a settled operation, so its error is logged only.

func (k *Keeper) afterPairCreated(ctx context.Context, pool *LiquidityPool) {
	k.metrics.PoolCreations.Inc()
	k.logger.Info("pair created", "pool_id", pool.id, "asset_a", pool.key.AssetA, "asset_b", pool.key.AssetB)
	if k.hooks == nil {
		return
	}
	if err := k.hooks.AfterPairCreated(ctx, pool.id, pool.key.AssetA, pool.key.AssetB); err != nil {
		k.logger.Error("AfterPairCreated hook failed", "pool_id", pool.id, "error", err)
	}
}

func (k *Keeper) afterLiquidityChanged(ctx context.Context, pool *LiquidityPool, provider string, amountA, amountB math.Int, isAdd bool) {
	poolID := strconv.FormatUint(pool.id, 10)
	counter := k.metrics.LiquidityRemoved
	if isAdd {
		counter = k.metrics.LiquidityAdded
	}
	counter.WithLabelValues(poolID, pool.key.AssetA).Add(approxFloat(amountA))
	counter.WithLabelValues(poolID, pool.key.AssetB).Add(approxFloat(amountB))
	k.observeReserves(ctx, pool)

	k.logger.Debug("liquidity changed", "pool_id", pool.id, "provider", provider,
		"amount_a", amountA.String(), "amount_b", amountB.String(), "add", isAdd)
	if k.hooks == nil {
		return
	}
	if err := k.hooks.AfterLiquidityChanged(ctx, pool.id, provider, amountA, amountB, isAdd); err != nil {
		k.logger.Error("AfterLiquidityChanged hook failed", "pool_id", pool.id, "error", err)
	}
}

func (k *Keeper) afterSwap(ctx context.Context, trader string, hops []executedHop) {
	for _, h := range hops {
		poolID := strconv.FormatUint(h.pool.id, 10)
		k.metrics.SwapVolume.WithLabelValues(poolID, h.assetIn).Add(approxFloat(h.amountIn))
		k.observeReserves(ctx, h.pool)

		k.logger.Debug("swap executed", "pool_id", h.pool.id, "trader", trader,
			"asset_in", h.assetIn, "asset_out", h.assetOut,
			"amount_in", h.amountIn.String(), "amount_out", h.amountOut.String())
		if k.hooks == nil {
			continue
		}
		if err := k.hooks.AfterSwap(ctx, h.pool.id, trader, h.assetIn, h.assetOut, h.amountIn, h.amountOut); err != nil {
			k.logger.Error("AfterSwap hook failed", "pool_id", h.pool.id, "error", err)
		}
	}
}

func (k *Keeper) observeReserves(ctx context.Context, pool *LiquidityPool) {
	state := pool.State(ctx)
	poolID := strconv.FormatUint(state.Id, 10)
	k.metrics.PoolReserves.WithLabelValues(poolID, state.AssetA).Set(approxFloat(state.ReserveA))
	k.metrics.PoolReserves.WithLabelValues(poolID, state.AssetB).Set(approxFloat(state.ReserveB))
	k.metrics.LPTokenSupply.WithLabelValues(poolID).Set(approxFloat(state.TotalShares))
}

// approxFloat converts an amount for metrics only.
func approxFloat(v math.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

var _ types.DexHooks = types.MultiDexHooks{}
