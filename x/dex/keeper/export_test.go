package keeper

import (
	"cosmossdk.io/math"
)

// SetReservesForTest overwrites a pool's reserves and total shares so
// invariant tests can seed corrupted state.
func SetReservesForTest(p *LiquidityPool, reserveA, reserveB, totalShares math.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reserveA, p.reserveB, p.totalShares = reserveA, reserveB, totalShares
}

// SetSharesForTest overwrites one holder's share balance without touching total shares.
func SetSharesForTest(p *LiquidityPool, holder string, shares math.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setShares(holder, shares)
}
