package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// DexHooks defines the interface for DEX callbacks.
// Hooks run after an operation has fully settled and its pool locks are
// released, so they may call back into the engine.
type DexHooks interface {
	// AfterPairCreated is called after a new pool is published in the registry.
	AfterPairCreated(ctx context.Context, poolID uint64, assetA, assetB string) error

	// AfterLiquidityChanged is called when liquidity is added or removed.
	// Deltas are in canonical A/B order and always non-negative.
	AfterLiquidityChanged(ctx context.Context, poolID uint64, provider string, deltaA, deltaB sdkmath.Int, isAdd bool) error

	// AfterSwap is called once per executed hop.
	AfterSwap(ctx context.Context, poolID uint64, trader string, assetIn, assetOut string, amountIn, amountOut sdkmath.Int) error
}

// MultiDexHooks combines multiple DEX hooks into a single hook that calls all of them.
type MultiDexHooks []DexHooks

// NewMultiDexHooks creates a new MultiDexHooks from a list of hooks.
func NewMultiDexHooks(hooks ...DexHooks) MultiDexHooks {
	return hooks
}

// AfterPairCreated calls AfterPairCreated on all registered hooks.
func (h MultiDexHooks) AfterPairCreated(ctx context.Context, poolID uint64, assetA, assetB string) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterPairCreated(ctx, poolID, assetA, assetB); err != nil {
			return err
		}
	}
	return nil
}

// AfterLiquidityChanged calls AfterLiquidityChanged on all registered hooks.
func (h MultiDexHooks) AfterLiquidityChanged(ctx context.Context, poolID uint64, provider string, deltaA, deltaB sdkmath.Int, isAdd bool) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterLiquidityChanged(ctx, poolID, provider, deltaA, deltaB, isAdd); err != nil {
			return err
		}
	}
	return nil
}

// AfterSwap calls AfterSwap on all registered hooks.
func (h MultiDexHooks) AfterSwap(ctx context.Context, poolID uint64, trader string, assetIn, assetOut string, amountIn, amountOut sdkmath.Int) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterSwap(ctx, poolID, trader, assetIn, assetOut, amountIn, amountOut); err != nil {
			return err
		}
	}
	return nil
}
