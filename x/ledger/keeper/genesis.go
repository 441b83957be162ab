package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/pawswap/x/ledger/types"
)

// InitGenesis mints every genesis balance and restores allowances. It only
// runs on an empty store; a persisted ledger is resumed, never re-minted.
func (k *Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	if k.HasState() {
		return fmt.Errorf("InitGenesis: %w", types.ErrStateExists)
	}
	for _, b := range gs.Balances {
		if err := k.Mint(ctx, b.Holder, b.Asset, b.Amount); err != nil {
			return fmt.Errorf("InitGenesis: balance %s/%s: %w", b.Holder, b.Asset, err)
		}
	}
	for _, a := range gs.Allowances {
		if err := k.Approve(ctx, a.Owner, a.Spender, a.Asset, a.Amount); err != nil {
			return fmt.Errorf("InitGenesis: allowance %s/%s: %w", a.Owner, a.Spender, err)
		}
	}
	return nil
}

// ExportGenesis returns every non-zero balance and allowance.
func (k *Keeper) ExportGenesis(_ context.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()
	if err := k.IterateBalances(func(b types.Balance) bool {
		gs.Balances = append(gs.Balances, b)
		return false
	}); err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	if err := k.IterateAllowances(func(a types.Allowance) bool {
		gs.Allowances = append(gs.Allowances, a)
		return false
	}); err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	return gs, nil
}
