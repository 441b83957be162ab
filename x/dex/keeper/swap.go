package keeper

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// GetAmountOut prices selling amountIn into a pool holding reserveIn/reserveOut:
//
//	effectiveIn = floor(amountIn * (1000 - fee) / 1000)
//	amountOut   = floor(reserveOut * effectiveIn / (reserveIn + effectiveIn))
//
// The result may be zero for dust inputs and is always below reserveOut.
func GetAmountOut(amountIn, reserveIn, reserveOut math.Int, fee uint64) (math.Int, error) {
	if reserveIn.IsNil() || reserveOut.IsNil() || !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("pool has no reserves")
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("amount in must be positive")
	}
	if fee >= types.FeeDenominator {
		return math.Int{}, types.ErrInvalidParams.Wrapf("fee %d", fee)
	}

	effectiveIn := new(big.Int).Mul(amountIn.BigInt(), new(big.Int).SetUint64(types.FeeDenominator-fee))
	effectiveIn.Quo(effectiveIn, new(big.Int).SetUint64(types.FeeDenominator))

	numerator := new(big.Int).Mul(reserveOut.BigInt(), effectiveIn)
	denominator := new(big.Int).Add(reserveIn.BigInt(), effectiveIn)
	return fromBig(numerator.Quo(numerator, denominator))
}

// GetAmountIn returns the smallest input for which GetAmountOut yields at
// least amountOut. It inverts both floors of GetAmountOut:
//
//	effectiveIn = ceil(reserveIn * amountOut / (reserveOut - amountOut))
//	amountIn    = ceil(effectiveIn * 1000 / (1000 - fee))
func GetAmountIn(amountOut, reserveIn, reserveOut math.Int, fee uint64) (math.Int, error) {
	if reserveIn.IsNil() || reserveOut.IsNil() || !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("pool has no reserves")
	}
	if amountOut.IsNil() || !amountOut.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("amount out must be positive")
	}
	if amountOut.GTE(reserveOut) {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrapf("amount out %s exhausts reserve %s", amountOut, reserveOut)
	}
	if fee >= types.FeeDenominator {
		return math.Int{}, types.ErrInvalidParams.Wrapf("fee %d", fee)
	}

	effectiveIn := mulDivCeil(reserveIn.BigInt(), amountOut.BigInt(), new(big.Int).Sub(reserveOut.BigInt(), amountOut.BigInt()))
	amountIn := mulDivCeil(effectiveIn, new(big.Int).SetUint64(types.FeeDenominator), new(big.Int).SetUint64(types.FeeDenominator-fee))
	return fromBig(amountIn)
}

// Quote returns the amount of B worth amountA at the current reserve ratio, without fees.
func Quote(amountA, reserveA, reserveB math.Int) (math.Int, error) {
	if amountA.IsNil() || !amountA.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("amount must be positive")
	}
	if reserveA.IsNil() || reserveB.IsNil() || !reserveA.IsPositive() || !reserveB.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("pool has no reserves")
	}
	return SafeMulDiv(amountA, reserveB, reserveA)
}

// quoteSwapLocked prices a swap against the current reserves of the pool.
func (p *LiquidityPool) quoteSwapLocked(amountIn math.Int, assetIn string) (amountOut math.Int, assetOut string, err error) {
	reserveIn, reserveOut, assetOut, err := p.reservesFor(assetIn)
	if err != nil {
		return math.Int{}, "", err
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.Int{}, "", types.ErrInsufficientLiquidity.Wrapf("pool %d (%s) has no reserves", p.id, p.key)
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.Int{}, "", types.ErrInvalidAmount.Wrapf("amount in must be positive, got %v", amountIn)
	}
	amountOut, err = GetAmountOut(amountIn, reserveIn, reserveOut, p.k.params.SwapFee)
	if err != nil {
		return math.Int{}, "", err
	}
	if amountOut.IsZero() {
		return math.Int{}, "", types.ErrInsufficientOutputAmount.Wrapf("%s%s", amountIn, assetIn)
	}
	return amountOut, assetOut, nil
}

// applySwapLocked moves a priced swap into the reserves and asserts the
// constant product did not shrink.
func (p *LiquidityPool) applySwapLocked(now time.Time, assetIn string, amountIn, amountOut math.Int) error {
	reserveIn, reserveOut, _, err := p.reservesFor(assetIn)
	if err != nil {
		return err
	}
	newReserveIn, err := SafeAdd(reserveIn, amountIn)
	if err != nil {
		return err
	}
	newReserveOut, err := SafeSub(reserveOut, amountOut)
	if err != nil {
		return err
	}

	oldK := product(p.reserveA, p.reserveB)
	p.accumulate(now)
	if assetIn == p.key.AssetA {
		p.reserveA, p.reserveB = newReserveIn, newReserveOut
	} else {
		p.reserveB, p.reserveA = newReserveIn, newReserveOut
	}

	if newK := product(p.reserveA, p.reserveB); newK.Cmp(oldK) < 0 {
		panic(fmt.Sprintf("pool %d (%s): constant product decreased from %s to %s", p.id, p.key, oldK, newK))
	}
	return nil
}

// Swap sells amountIn of assetIn for the other asset of the pool. The input is
// pulled from trader and the output paid to recipient.
func (p *LiquidityPool) Swap(ctx context.Context, trader, recipient string, amountIn math.Int, assetIn string, amountOutMin math.Int) (math.Int, error) {
	start := time.Now()
	if err := validateAccounts(trader, recipient); err != nil {
		return math.Int{}, err
	}
	if amountOutMin.IsNil() || amountOutMin.IsNegative() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("minimum output must be non-negative")
	}

	var hop executedHop
	err := p.k.withPools(ctx, "swap", []*LiquidityPool{p}, func(ctx context.Context) error {
		amountOut, assetOut, err := p.quoteSwapLocked(amountIn, assetIn)
		if err != nil {
			return err
		}
		if amountOut.LT(amountOutMin) {
			return types.ErrSlippage.Wrapf("output %s%s below minimum %s", amountOut, assetOut, amountOutMin)
		}
		hop = executedHop{pool: p, assetIn: assetIn, assetOut: assetOut, amountIn: amountIn, amountOut: amountOut}
		return p.k.executeHops(ctx, "swap", trader, recipient, []executedHop{hop})
	})

	p.k.recordSwap(start, err)
	if err != nil {
		return math.Int{}, err
	}
	p.k.afterSwap(ctx, trader, []executedHop{hop})
	return hop.amountOut, nil
}

// SpotPrice returns the marginal price of assetIn in units of the other asset, before fees.
func (p *LiquidityPool) SpotPrice(ctx context.Context, assetIn string) (math.LegacyDec, error) {
	defer p.rlock(ctx)()
	reserveIn, reserveOut, _, err := p.reservesFor(assetIn)
	if err != nil {
		return math.LegacyDec{}, err
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.LegacyDec{}, types.ErrInsufficientLiquidity.Wrapf("pool %d (%s) has no reserves", p.id, p.key)
	}
	price := new(big.Int).Mul(reserveOut.BigInt(), priceScale)
	price.Quo(price, reserveIn.BigInt())
	return math.LegacyNewDecFromBigIntWithPrec(price, types.AmountPrecision), nil
}

func validateAccounts(accounts ...string) error {
	for _, account := range accounts {
		if account == "" {
			return types.ErrInvalidAddress.Wrap("account cannot be empty")
		}
		if account == types.LockedSharesHolder || account == types.ModuleAccount {
			return types.ErrInvalidAddress.Wrapf("%s is reserved", account)
		}
	}
	return nil
}
