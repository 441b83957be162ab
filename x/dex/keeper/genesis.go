package keeper

import (
	"context"
	"fmt"
	"sort"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// InitGenesis loads params and pools into an empty registry. Pools keep their
// ids and creation order. Custody balances are the ledger's concern; run
// AllInvariants afterwards to check they back the imported reserves.
func (k *Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.pools) != 0 || len(k.pending) != 0 {
		return fmt.Errorf("InitGenesis: registry already holds %d pools", len(k.pools))
	}
	k.params = genState.Params

	for _, pg := range genState.Pools {
		pool := newLiquidityPool(k, pg.Key())
		pool.reserveA = pg.ReserveA
		pool.reserveB = pg.ReserveB
		pool.totalShares = pg.TotalShares
		pool.lastUpdated = pg.LastUpdated
		if !pg.PriceACumulative.IsNil() {
			pool.priceACumulative = pg.PriceACumulative
		}
		if !pg.PriceBCumulative.IsNil() {
			pool.priceBCumulative = pg.PriceBCumulative
		}
		for _, rec := range pg.Shares {
			pool.shares[rec.Holder] = rec.Shares
		}
		k.publish(pool)
	}
	k.logger.Info("genesis loaded", "pools", len(k.pools), "params", k.params.String())
	return nil
}

// ExportGenesis exports the dex module's state to a genesis state
func (k *Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	gs := &types.GenesisState{
		Params: k.params,
		Pools:  []types.PoolGenesis{},
	}
	for _, pool := range k.GetAllPools() {
		gs.Pools = append(gs.Pools, pool.export(ctx))
	}
	return gs, nil
}

func (p *LiquidityPool) export(ctx context.Context) types.PoolGenesis {
	defer p.rlock(ctx)()
	shares := p.shareRecords()
	sort.Slice(shares, func(i, j int) bool { return shares[i].Holder < shares[j].Holder })
	return types.PoolGenesis{PoolState: p.stateLocked(), Shares: shares}
}
