package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// PoolState is a point-in-time copy of a pool, safe to hand out to callers.
type PoolState struct {
	Id               uint64    `json:"id"`
	AssetA           string    `json:"asset_a"`
	AssetB           string    `json:"asset_b"`
	ReserveA         math.Int  `json:"reserve_a"`
	ReserveB         math.Int  `json:"reserve_b"`
	TotalShares      math.Int  `json:"total_shares"`
	LastUpdated      time.Time `json:"last_updated"`
	PriceACumulative math.Int  `json:"price_a_cumulative"`
	PriceBCumulative math.Int  `json:"price_b_cumulative"`
}

// Key returns the canonical pair key of the pool.
func (p PoolState) Key() PairKey {
	return PairKey{AssetA: p.AssetA, AssetB: p.AssetB}
}

// IsEmpty reports whether the pool has not received its first deposit yet.
func (p PoolState) IsEmpty() bool {
	return p.TotalShares.IsZero()
}

// Validate checks the reserve/share relationship every pool must satisfy.
func (p PoolState) Validate() error {
	if _, err := NewPairKey(p.AssetA, p.AssetB); err != nil {
		return err
	}
	if p.AssetA > p.AssetB {
		return ErrInvalidGenesis.Wrapf("pool %d assets not in canonical order", p.Id)
	}
	for name, v := range map[string]math.Int{"reserve_a": p.ReserveA, "reserve_b": p.ReserveB, "total_shares": p.TotalShares} {
		if v.IsNil() || v.IsNegative() {
			return ErrInvalidAmount.Wrapf("pool %d: %s must be non-negative", p.Id, name)
		}
	}
	if p.TotalShares.IsZero() {
		if !p.ReserveA.IsZero() || !p.ReserveB.IsZero() {
			return ErrInvalidGenesis.Wrapf("pool %d has reserves but no shares", p.Id)
		}
		return nil
	}
	if !p.ReserveA.IsPositive() || !p.ReserveB.IsPositive() {
		return ErrInvalidGenesis.Wrapf("pool %d has shares but an empty reserve", p.Id)
	}
	return nil
}

// String implements fmt.Stringer.
func (p PoolState) String() string {
	return fmt.Sprintf("pool %d %s/%s reserves=%s/%s shares=%s",
		p.Id, p.AssetA, p.AssetB, p.ReserveA, p.ReserveB, p.TotalShares)
}

// AddLiquidityResult reports the amounts actually deposited.
type AddLiquidityResult struct {
	PoolId  uint64   `json:"pool_id"`
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
	Shares  math.Int `json:"shares"`
}

// RemoveLiquidityResult reports the amounts paid out for burned shares.
type RemoveLiquidityResult struct {
	PoolId  uint64   `json:"pool_id"`
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
}
