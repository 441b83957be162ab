package app

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"

	dextypes "github.com/paw-chain/pawswap/x/dex/types"
)

// dexStateKey holds the last persisted registry. It sits outside the ledger
// key prefixes of the same database.
var dexStateKey = []byte("app/dex-state")

// LoadState prepares the app for serving. A ledger without state is loaded
// from gs. A ledger that already holds state was persisted by an earlier run:
// gs is ignored and the registry is restored from the snapshot saved with it.
// It reports whether persisted state was resumed.
func (a *App) LoadState(ctx context.Context, gs GenesisState) (resumed bool, err error) {
	if !a.LedgerKeeper.HasState() {
		if err := a.InitGenesis(ctx, gs); err != nil {
			return false, err
		}
		return false, a.persistDexState(ctx)
	}

	bz, err := a.db.Get(dexStateKey)
	if err != nil {
		return false, fmt.Errorf("LoadState: read registry snapshot: %w", err)
	}
	if bz == nil {
		return false, fmt.Errorf("LoadState: ledger holds state but no registry snapshot was saved with it; start from an exported genesis with an empty ledger directory")
	}
	var dexGenesis dextypes.GenesisState
	if err := json.Unmarshal(bz, &dexGenesis); err != nil {
		return false, fmt.Errorf("LoadState: decode registry snapshot: %w", err)
	}
	if err := a.DexKeeper.InitGenesis(ctx, dexGenesis); err != nil {
		return false, fmt.Errorf("LoadState: %w", err)
	}
	if msg, broken := a.CheckInvariants(ctx); broken {
		return false, fmt.Errorf("LoadState: persisted state is inconsistent: %s", msg)
	}
	a.loaded = true
	a.logger.Info("persisted state resumed", "pools", a.DexKeeper.AllPairsLength())
	return true, nil
}

// persistDexState writes the current registry next to the ledger. Writes are
// serialized and each one exports afresh, so the last write is the newest
// state. Backends without persistence skip it.
func (a *App) persistDexState(ctx context.Context) error {
	if !a.persistent {
		return nil
	}
	a.persistMu.Lock()
	defer a.persistMu.Unlock()

	gs, err := a.DexKeeper.ExportGenesis(ctx)
	if err != nil {
		return err
	}
	bz, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("encode registry snapshot: %w", err)
	}
	return a.db.SetSync(dexStateKey, bz)
}

// stateHooks persists the registry after every settled operation.
type stateHooks struct {
	app *App
}

var _ dextypes.DexHooks = stateHooks{}

func (h stateHooks) AfterPairCreated(ctx context.Context, _ uint64, _, _ string) error {
	return h.app.persistDexState(ctx)
}

func (h stateHooks) AfterLiquidityChanged(ctx context.Context, _ uint64, _ string, _, _ math.Int, _ bool) error {
	return h.app.persistDexState(ctx)
}

func (h stateHooks) AfterSwap(ctx context.Context, _ uint64, _ string, _, _ string, _, _ math.Int) error {
	return h.app.persistDexState(ctx)
}
