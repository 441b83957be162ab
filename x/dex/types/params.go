package types

import (
	"fmt"

	"cosmossdk.io/math"
)

const (
	// FeeDenominator is the scale of Params.SwapFee: a fee of 3 takes 3/1000 of the input.
	FeeDenominator uint64 = 1000

	// DefaultSwapFee is 0.3%.
	DefaultSwapFee uint64 = 3

	// DefaultMinimumLiquidity is the share amount permanently locked by the first deposit.
	DefaultMinimumLiquidity int64 = 1000

	// DefaultMaxHops bounds router paths; a path of n hops lists n+1 assets.
	DefaultMaxHops uint32 = 5

	// DefaultMaxPools bounds the registry.
	DefaultMaxPools uint32 = 1000
)

// Params are the engine-wide settings. They are fixed for the lifetime of a keeper.
type Params struct {
	SwapFee          uint64   `json:"swap_fee"`
	MinimumLiquidity math.Int `json:"minimum_liquidity"`
	MaxHops          uint32   `json:"max_hops"`
	MaxPools         uint32   `json:"max_pools"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		SwapFee:          DefaultSwapFee,
		MinimumLiquidity: math.NewInt(DefaultMinimumLiquidity),
		MaxHops:          DefaultMaxHops,
		MaxPools:         DefaultMaxPools,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.SwapFee >= FeeDenominator {
		return ErrInvalidParams.Wrapf("swap fee %d must be below %d", p.SwapFee, FeeDenominator)
	}
	if p.MinimumLiquidity.IsNil() || p.MinimumLiquidity.IsNegative() {
		return ErrInvalidParams.Wrap("minimum liquidity must be non-negative")
	}
	if p.MaxHops == 0 {
		return ErrInvalidParams.Wrap("max hops must be positive")
	}
	if p.MaxPools == 0 {
		return ErrInvalidParams.Wrap("max pools must be positive")
	}
	return nil
}

// String implements fmt.Stringer.
func (p Params) String() string {
	return fmt.Sprintf("swap_fee=%d/%d minimum_liquidity=%s max_hops=%d max_pools=%d",
		p.SwapFee, FeeDenominator, p.MinimumLiquidity, p.MaxHops, p.MaxPools)
}
