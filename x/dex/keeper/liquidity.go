package keeper

import (
	"context"
	"time"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// deposit is a priced liquidity addition.
type deposit struct {
	amountA, amountB math.Int
	// minted goes to the recipient, locked to LockedSharesHolder.
	minted, locked math.Int
}

func validateNonNegative(name string, v math.Int) error {
	if v.IsNil() || v.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("%s must be non-negative", name)
	}
	return nil
}

func validatePositive(name string, v math.Int) error {
	if v.IsNil() || !v.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("%s must be positive", name)
	}
	return nil
}

// priceDepositLocked trims the desired amounts to the pool ratio and computes
// the shares to mint. Nothing is mutated.
func (p *LiquidityPool) priceDepositLocked(amountADesired, amountBDesired, amountAMin, amountBMin math.Int) (deposit, error) {
	if err := validatePositive("amount A desired", amountADesired); err != nil {
		return deposit{}, err
	}
	if err := validatePositive("amount B desired", amountBDesired); err != nil {
		return deposit{}, err
	}
	if err := validateNonNegative("amount A min", amountAMin); err != nil {
		return deposit{}, err
	}
	if err := validateNonNegative("amount B min", amountBMin); err != nil {
		return deposit{}, err
	}

	// 1. First deposit sets the price; the minimum liquidity is locked forever.
	if p.totalShares.IsZero() {
		if err := checkMinimums(p.key, amountADesired, amountBDesired, amountAMin, amountBMin); err != nil {
			return deposit{}, err
		}
		liquidity, err := sqrtProduct(amountADesired, amountBDesired)
		if err != nil {
			return deposit{}, err
		}
		locked := p.k.params.MinimumLiquidity
		if liquidity.LTE(locked) {
			return deposit{}, types.ErrInsufficientLiquidityMinted.Wrapf(
				"initial liquidity %s must exceed minimum %s", liquidity, locked)
		}
		return deposit{
			amountA: amountADesired,
			amountB: amountBDesired,
			minted:  liquidity.Sub(locked),
			locked:  locked,
		}, nil
	}

	// 2. Later deposits keep the ratio: trim whichever side is in excess.
	amountA, amountB := amountADesired, amountBDesired
	optimalB, err := SafeMulDiv(amountADesired, p.reserveB, p.reserveA)
	if err != nil {
		return deposit{}, err
	}
	if optimalB.LTE(amountBDesired) {
		if optimalB.LT(amountBMin) {
			return deposit{}, types.ErrSlippage.Wrapf("%s amount %s below minimum %s", p.key.AssetB, optimalB, amountBMin)
		}
		amountB = optimalB
	} else {
		optimalA, err := SafeMulDiv(amountBDesired, p.reserveA, p.reserveB)
		if err != nil {
			return deposit{}, err
		}
		if optimalA.LT(amountAMin) {
			return deposit{}, types.ErrSlippage.Wrapf("%s amount %s below minimum %s", p.key.AssetA, optimalA, amountAMin)
		}
		amountA = optimalA
	}
	if err := checkMinimums(p.key, amountA, amountB, amountAMin, amountBMin); err != nil {
		return deposit{}, err
	}

	// 3. Mint in proportion to the smaller contribution.
	sharesA, err := SafeMulDiv(amountA, p.totalShares, p.reserveA)
	if err != nil {
		return deposit{}, err
	}
	sharesB, err := SafeMulDiv(amountB, p.totalShares, p.reserveB)
	if err != nil {
		return deposit{}, err
	}
	minted := minInt(sharesA, sharesB)
	if minted.IsZero() {
		return deposit{}, types.ErrInsufficientLiquidityMinted.Wrapf("deposit of %s/%s mints no shares", amountA, amountB)
	}
	return deposit{amountA: amountA, amountB: amountB, minted: minted, locked: math.ZeroInt()}, nil
}

func checkMinimums(key types.PairKey, amountA, amountB, amountAMin, amountBMin math.Int) error {
	if amountA.LT(amountAMin) {
		return types.ErrSlippage.Wrapf("%s amount %s below minimum %s", key.AssetA, amountA, amountAMin)
	}
	if amountB.LT(amountBMin) {
		return types.ErrSlippage.Wrapf("%s amount %s below minimum %s", key.AssetB, amountB, amountBMin)
	}
	return nil
}

// applyDepositLocked moves a priced deposit into the pool.
func (p *LiquidityPool) applyDepositLocked(now time.Time, recipient string, d deposit) error {
	reserveA, err := SafeAdd(p.reserveA, d.amountA)
	if err != nil {
		return err
	}
	reserveB, err := SafeAdd(p.reserveB, d.amountB)
	if err != nil {
		return err
	}
	totalShares, err := SafeAdd(p.totalShares, d.minted.Add(d.locked))
	if err != nil {
		return err
	}

	p.accumulate(now)
	p.reserveA, p.reserveB, p.totalShares = reserveA, reserveB, totalShares
	p.setShares(recipient, p.sharesOf(recipient).Add(d.minted))
	if d.locked.IsPositive() {
		p.setShares(types.LockedSharesHolder, p.sharesOf(types.LockedSharesHolder).Add(d.locked))
	}
	return nil
}

// addLiquidityLocked prices, applies and settles a deposit. On error the pool
// and the ledger are left exactly as they were.
func (p *LiquidityPool) addLiquidityLocked(ctx context.Context, provider, recipient string, amountADesired, amountBDesired, amountAMin, amountBMin math.Int) (types.AddLiquidityResult, error) {
	if err := validateAccounts(provider, recipient); err != nil {
		return types.AddLiquidityResult{}, err
	}
	d, err := p.priceDepositLocked(amountADesired, amountBDesired, amountAMin, amountBMin)
	if err != nil {
		return types.AddLiquidityResult{}, err
	}

	snap := p.snapshot(recipient, types.LockedSharesHolder)
	if err := p.applyDepositLocked(p.k.now(), recipient, d); err != nil {
		p.restore(snap)
		return types.AddLiquidityResult{}, err
	}

	s := p.k.newSettlement()
	for _, leg := range []struct {
		asset  string
		amount math.Int
	}{{p.key.AssetA, d.amountA}, {p.key.AssetB, d.amountB}} {
		if err := s.pull(ctx, provider, leg.asset, leg.amount); err != nil {
			s.revert(ctx, "add_liquidity")
			p.restore(snap)
			return types.AddLiquidityResult{}, err
		}
	}

	return types.AddLiquidityResult{PoolId: p.id, AmountA: d.amountA, AmountB: d.amountB, Shares: d.minted}, nil
}

// AddLiquidity deposits both assets (in canonical order) from provider and
// mints shares to recipient.
func (p *LiquidityPool) AddLiquidity(ctx context.Context, provider, recipient string, amountADesired, amountBDesired, amountAMin, amountBMin math.Int) (types.AddLiquidityResult, error) {
	var res types.AddLiquidityResult
	err := p.k.withPools(ctx, "add_liquidity", []*LiquidityPool{p}, func(ctx context.Context) error {
		var err error
		res, err = p.addLiquidityLocked(ctx, provider, recipient, amountADesired, amountBDesired, amountAMin, amountBMin)
		return err
	})
	if err != nil {
		return types.AddLiquidityResult{}, err
	}
	p.k.afterLiquidityChanged(ctx, p, provider, res.AmountA, res.AmountB, true)
	return res, nil
}

// removeLiquidityLocked burns shares of provider and pays the pro-rata
// reserves to recipient.
func (p *LiquidityPool) removeLiquidityLocked(ctx context.Context, provider, recipient string, shares, amountAMin, amountBMin math.Int) (types.RemoveLiquidityResult, error) {
	if err := validateAccounts(provider, recipient); err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	if err := validatePositive("shares", shares); err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	if err := validateNonNegative("amount A min", amountAMin); err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	if err := validateNonNegative("amount B min", amountBMin); err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	if p.totalShares.IsZero() {
		return types.RemoveLiquidityResult{}, types.ErrInsufficientLiquidity.Wrapf("pool %d (%s) is empty", p.id, p.key)
	}
	held := p.sharesOf(provider)
	if held.LT(shares) {
		return types.RemoveLiquidityResult{}, types.ErrInsufficientShares.Wrapf("%s holds %s, burning %s", provider, held, shares)
	}

	amountA, err := SafeMulDiv(shares, p.reserveA, p.totalShares)
	if err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	amountB, err := SafeMulDiv(shares, p.reserveB, p.totalShares)
	if err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	if amountA.IsZero() || amountB.IsZero() {
		return types.RemoveLiquidityResult{}, types.ErrInsufficientLiquidityBurned.Wrapf("%s shares redeem %s/%s", shares, amountA, amountB)
	}
	if err := checkMinimums(p.key, amountA, amountB, amountAMin, amountBMin); err != nil {
		return types.RemoveLiquidityResult{}, err
	}

	snap := p.snapshot(provider)
	p.accumulate(p.k.now())
	p.reserveA = p.reserveA.Sub(amountA)
	p.reserveB = p.reserveB.Sub(amountB)
	p.totalShares = p.totalShares.Sub(shares)
	p.setShares(provider, held.Sub(shares))

	s := p.k.newSettlement()
	if err := s.pay(ctx, recipient, p.key.AssetA, amountA); err != nil {
		p.restore(snap)
		return types.RemoveLiquidityResult{}, err
	}
	if err := s.pay(ctx, recipient, p.key.AssetB, amountB); err != nil {
		s.revert(ctx, "remove_liquidity")
		p.restore(snap)
		return types.RemoveLiquidityResult{}, err
	}
	return types.RemoveLiquidityResult{PoolId: p.id, AmountA: amountA, AmountB: amountB}, nil
}

// RemoveLiquidity burns shares held by provider and pays both assets to recipient.
func (p *LiquidityPool) RemoveLiquidity(ctx context.Context, provider, recipient string, shares, amountAMin, amountBMin math.Int) (types.RemoveLiquidityResult, error) {
	var res types.RemoveLiquidityResult
	err := p.k.withPools(ctx, "remove_liquidity", []*LiquidityPool{p}, func(ctx context.Context) error {
		var err error
		res, err = p.removeLiquidityLocked(ctx, provider, recipient, shares, amountAMin, amountBMin)
		return err
	})
	if err != nil {
		return types.RemoveLiquidityResult{}, err
	}
	p.k.afterLiquidityChanged(ctx, p, provider, res.AmountA, res.AmountB, false)
	return res, nil
}
