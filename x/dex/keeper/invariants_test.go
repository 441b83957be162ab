package keeper_test

import (
	"fmt"
	"sync"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/pawswap/testutil/keeper"
	"github.com/paw-chain/pawswap/x/dex/keeper"
	"github.com/paw-chain/pawswap/x/dex/types"
)

func TestInvariants(t *testing.T) {
	tests := []struct {
		name      string
		corrupt   func(f *keepertest.Fixture, pool *keeper.LiquidityPool)
		wantRoute string
	}{
		{
			name:    "healthy",
			corrupt: func(*keepertest.Fixture, *keeper.LiquidityPool) {},
		},
		{
			name: "custody drained",
			corrupt: func(f *keepertest.Fixture, _ *keeper.LiquidityPool) {
				require.NoError(t, f.Ledger.Transfer(f.Ctx, types.ModuleAccount, "thief", tokenA, math.OneInt()))
			},
			wantRoute: "pool-reserves",
		},
		{
			name: "shares do not sum",
			corrupt: func(_ *keepertest.Fixture, pool *keeper.LiquidityPool) {
				keeper.SetSharesForTest(pool, "ghost", math.NewInt(5))
			},
			wantRoute: "pool-shares",
		},
		{
			name: "shares with an empty reserve",
			corrupt: func(_ *keepertest.Fixture, pool *keeper.LiquidityPool) {
				keeper.SetReservesForTest(pool, math.ZeroInt(), math.NewInt(2_000_000), math.NewInt(1_414_213))
			},
			wantRoute: "positive-reserves",
		},
		{
			name: "diluted shares",
			corrupt: func(_ *keepertest.Fixture, pool *keeper.LiquidityPool) {
				keeper.SetReservesForTest(pool, math.NewInt(10), math.NewInt(10), math.NewInt(1_414_213))
			},
			wantRoute: "constant-product",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, pool := setupPoolForSwaps(t)
			tc.corrupt(f, pool)

			for _, inv := range keeper.RegisteredInvariants(f.Keeper) {
				msg, broken := inv.Invariant(f.Ctx)
				require.Equal(t, inv.Route == tc.wantRoute, broken, "%s: %s", inv.Route, msg)
				require.Contains(t, msg, inv.Route+" invariant")
			}

			msg, broken := keeper.AllInvariants(f.Keeper)(f.Ctx)
			require.Equal(t, tc.wantRoute != "", broken)
			if broken {
				require.Contains(t, msg, tc.wantRoute)
			}
		})
	}
}

func TestPoolReservesInvariant_HoldsDuringConcurrentSwaps(t *testing.T) {
	f := setupRoute(t)
	const workers = 4
	for i := 0; i < workers; i++ {
		f.Fund(t, fmt.Sprintf("trader-%d", i), tokenA, math.NewInt(1_000_000))
		f.Fund(t, fmt.Sprintf("trader-%d", i), tokenC, math.NewInt(1_000_000))
	}

	invariant := keeper.PoolReservesInvariant(f.Keeper)
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			who := fmt.Sprintf("trader-%d", i)
			path := types.SwapPath{tokenA, tokenB, tokenC}
			if i%2 == 1 {
				path = types.SwapPath{tokenC, tokenB, tokenA}
			}
			for j := 0; j < 50; j++ {
				_, err := f.Router.SwapExactTokensForTokens(f.Ctx, who, math.NewInt(1000), math.ZeroInt(), path, who, f.Deadline())
				assert.NoError(t, err)
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		msg, broken := invariant(f.Ctx)
		require.False(t, broken, msg)
		select {
		case <-done:
			f.RequireInvariants(t)
			return
		default:
		}
	}
}
