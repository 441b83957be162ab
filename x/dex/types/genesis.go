package types

import (
	sdkmath "cosmossdk.io/math"
)

// GenesisState is the exported form of the whole registry.
type GenesisState struct {
	Params Params        `json:"params"`
	Pools  []PoolGenesis `json:"pools"`
}

// PoolGenesis is one pool with its share ledger. Pools are listed in creation
// order; Id must equal the position in the list plus one.
type PoolGenesis struct {
	PoolState
	Shares []ShareRecord `json:"shares"`
}

// ShareRecord is the share balance of one holder in one pool.
type ShareRecord struct {
	Holder string      `json:"holder"`
	Shares sdkmath.Int `json:"shares"`
}

// DefaultGenesis returns the default genesis state for the DEX module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		Pools:  []PoolGenesis{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if uint32(len(gs.Pools)) > gs.Params.MaxPools {
		return ErrInvalidGenesis.Wrapf("%d pools exceed max pools %d", len(gs.Pools), gs.Params.MaxPools)
	}

	seen := make(map[PairKey]uint64, len(gs.Pools))
	for i, pool := range gs.Pools {
		if pool.Id != uint64(i)+1 {
			return ErrInvalidGenesis.Wrapf("pool at position %d has id %d, want %d", i, pool.Id, i+1)
		}
		if err := pool.Validate(); err != nil {
			return err
		}
		key := pool.Key()
		if prev, ok := seen[key]; ok {
			return ErrPairExists.Wrapf("pools %d and %d share pair %s", prev, pool.Id, key)
		}
		seen[key] = pool.Id

		if err := validateShareRecords(pool); err != nil {
			return err
		}
	}
	return nil
}

func validateShareRecords(pool PoolGenesis) error {
	sum := sdkmath.ZeroInt()
	holders := make(map[string]struct{}, len(pool.Shares))
	for _, rec := range pool.Shares {
		if rec.Holder == "" {
			return ErrInvalidAddress.Wrapf("pool %d: empty share holder", pool.Id)
		}
		if _, dup := holders[rec.Holder]; dup {
			return ErrInvalidGenesis.Wrapf("pool %d: duplicate share holder %s", pool.Id, rec.Holder)
		}
		holders[rec.Holder] = struct{}{}
		if rec.Shares.IsNil() || !rec.Shares.IsPositive() {
			return ErrInvalidAmount.Wrapf("pool %d: holder %s has non-positive shares", pool.Id, rec.Holder)
		}
		sum = sum.Add(rec.Shares)
	}
	if !sum.Equal(pool.TotalShares) {
		return ErrInvalidGenesis.Wrapf("pool %d: shares sum %s != total shares %s", pool.Id, sum, pool.TotalShares)
	}
	return nil
}
