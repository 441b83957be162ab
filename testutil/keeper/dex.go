package keeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/x/dex/keeper"
	"github.com/paw-chain/pawswap/x/dex/types"
	ledgerkeeper "github.com/paw-chain/pawswap/x/ledger/keeper"
)

// GenesisTime is the initial reading of every test clock.
var GenesisTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Clock is a manually advanced clock for deterministic deadlines and accumulators.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock reading GenesisTime.
func NewClock() *Clock {
	return &Clock{now: GenesisTime}
}

// Now returns the current reading.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Fixture bundles a registry, its router and the ledger backing it.
type Fixture struct {
	Ctx    context.Context
	Keeper *keeper.Keeper
	Router *keeper.Router
	Ledger *ledgerkeeper.Keeper
	Clock  *Clock
}

// DexKeeper creates a registry over an in-memory ledger.
func DexKeeper(t testing.TB, opts ...keeper.Option) *Fixture {
	t.Helper()
	ledger := ledgerkeeper.NewKeeper(dbm.NewMemDB(), log.NewNopLogger())
	return DexKeeperWithLedger(t, ledger, ledger, opts...)
}

// DexKeeperWithLedger creates a registry whose pools settle through tokens,
// typically a wrapper around ledger that injects failures or callbacks.
func DexKeeperWithLedger(t testing.TB, ledger *ledgerkeeper.Keeper, tokens types.TokenLedger, opts ...keeper.Option) *Fixture {
	t.Helper()
	clock := NewClock()
	opts = append([]keeper.Option{keeper.WithClock(clock.Now)}, opts...)
	k, err := keeper.NewKeeper(tokens, log.NewNopLogger(), opts...)
	require.NoError(t, err)
	return &Fixture{
		Ctx:    context.Background(),
		Keeper: k,
		Router: keeper.NewRouter(k),
		Ledger: ledger,
		Clock:  clock,
	}
}

// Deadline returns a deadline one hour ahead of the fixture clock.
func (f *Fixture) Deadline() time.Time {
	return f.Clock.Now().Add(time.Hour)
}

// Fund mints amount of asset to holder and raises holder's allowance for the
// module account by the same amount.
func (f *Fixture) Fund(t testing.TB, holder, asset string, amount math.Int) {
	t.Helper()
	require.NoError(t, f.Ledger.Mint(f.Ctx, holder, asset, amount))
	allowance := f.Ledger.Allowance(f.Ctx, holder, types.ModuleAccount, asset)
	require.NoError(t, f.Ledger.Approve(f.Ctx, holder, types.ModuleAccount, asset, allowance.Add(amount)))
}

// CreateTestPool funds provider and makes the first deposit of a new pool.
func (f *Fixture) CreateTestPool(t testing.TB, provider, assetA, assetB string, amountA, amountB math.Int) *keeper.LiquidityPool {
	t.Helper()
	f.Fund(t, provider, assetA, amountA)
	f.Fund(t, provider, assetB, amountB)
	_, err := f.Router.AddLiquidity(f.Ctx, provider, assetA, assetB, amountA, amountB, math.ZeroInt(), math.ZeroInt(), provider, f.Deadline())
	require.NoError(t, err)
	pool, ok := f.Keeper.GetPair(assetA, assetB)
	require.True(t, ok)
	return pool
}

// RequireInvariants fails the test if any registry invariant is broken.
func (f *Fixture) RequireInvariants(t testing.TB) {
	t.Helper()
	msg, broken := keeper.AllInvariants(f.Keeper)(f.Ctx)
	require.False(t, broken, msg)
}
