package keeper_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	keepertest "github.com/paw-chain/pawswap/testutil/keeper"
	"github.com/paw-chain/pawswap/x/dex/keeper"
	"github.com/paw-chain/pawswap/x/dex/types"
)

const (
	tokenA = "upaw"
	tokenB = "uusdc"
	tokenC = "uatom"
	tokenD = "uosmo"

	provider = "provider"
	trader   = "trader"
)

// setupPoolForSwaps creates a upaw/uusdc pool holding 1M/2M.
func setupPoolForSwaps(t *testing.T) (*keepertest.Fixture, *keeper.LiquidityPool) {
	t.Helper()
	f := keepertest.DexKeeper(t)
	pool := f.CreateTestPool(t, provider, tokenA, tokenB, math.NewInt(1_000_000), math.NewInt(2_000_000))
	return f, pool
}

func TestGetAmountOut_FeeBites(t *testing.T) {
	out, err := keeper.GetAmountOut(math.NewInt(10), math.NewInt(1000), math.NewInt(1000), types.DefaultSwapFee)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(8), out)

	// without a fee the same trade yields 9
	out, err = keeper.GetAmountOut(math.NewInt(10), math.NewInt(1000), math.NewInt(1000), 0)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(9), out)
}

func TestGetAmountOut_PriceImpact(t *testing.T) {
	reserve := math.NewInt(10_000)
	small, err := keeper.GetAmountOut(math.NewInt(100), reserve, reserve, types.DefaultSwapFee)
	require.NoError(t, err)
	large, err := keeper.GetAmountOut(math.NewInt(1000), reserve, reserve, types.DefaultSwapFee)
	require.NoError(t, err)

	// small/100 > large/1000
	require.True(t, small.MulRaw(1000).GT(large.MulRaw(100)), "small %s large %s", small, large)
}

func TestGetAmountOut_Errors(t *testing.T) {
	_, err := keeper.GetAmountOut(math.ZeroInt(), math.NewInt(10), math.NewInt(10), 3)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = keeper.GetAmountOut(math.NewInt(1), math.ZeroInt(), math.NewInt(10), 3)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	_, err = keeper.GetAmountOut(math.ZeroInt(), math.ZeroInt(), math.ZeroInt(), 3)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	_, err = keeper.GetAmountOut(math.NewInt(1), math.NewInt(10), math.NewInt(10), types.FeeDenominator)
	require.ErrorIs(t, err, types.ErrInvalidParams)
}

func TestGetAmountIn_Errors(t *testing.T) {
	_, err := keeper.GetAmountIn(math.NewInt(10), math.NewInt(100), math.NewInt(10), 3)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	_, err = keeper.GetAmountIn(math.NewInt(-1), math.NewInt(100), math.NewInt(100), 3)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = keeper.GetAmountIn(math.ZeroInt(), math.ZeroInt(), math.NewInt(100), 3)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
}

func TestGetAmountIn_IsMinimalInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveIn := math.NewInt(rapid.Int64Range(1, 1<<50).Draw(t, "reserveIn"))
		reserveOut := math.NewInt(rapid.Int64Range(2, 1<<50).Draw(t, "reserveOut"))
		amountOut := math.NewInt(rapid.Int64Range(1, reserveOut.Int64()-1).Draw(t, "amountOut"))
		fee := rapid.Uint64Range(0, 100).Draw(t, "fee")

		amountIn, err := keeper.GetAmountIn(amountOut, reserveIn, reserveOut, fee)
		if err != nil {
			t.Fatalf("GetAmountIn: %v", err)
		}
		got, err := keeper.GetAmountOut(amountIn, reserveIn, reserveOut, fee)
		if err != nil {
			t.Fatalf("GetAmountOut: %v", err)
		}
		if got.LT(amountOut) {
			t.Fatalf("input %s buys %s, want at least %s", amountIn, got, amountOut)
		}
		if amountIn.GT(math.OneInt()) {
			less, err := keeper.GetAmountOut(amountIn.SubRaw(1), reserveIn, reserveOut, fee)
			if err != nil {
				t.Fatalf("GetAmountOut: %v", err)
			}
			if less.GTE(amountOut) {
				t.Fatalf("input %s is not minimal: %s already buys %s", amountIn, amountIn.SubRaw(1), less)
			}
		}
	})
}

func TestGetAmountOut_NeverDrainsPool(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amountIn := math.NewInt(rapid.Int64Range(1, 1<<62).Draw(t, "amountIn"))
		reserveIn := math.NewInt(rapid.Int64Range(1, 1<<62).Draw(t, "reserveIn"))
		reserveOut := math.NewInt(rapid.Int64Range(1, 1<<62).Draw(t, "reserveOut"))

		out, err := keeper.GetAmountOut(amountIn, reserveIn, reserveOut, types.DefaultSwapFee)
		if err != nil {
			t.Fatalf("GetAmountOut: %v", err)
		}
		if out.GTE(reserveOut) {
			t.Fatalf("output %s drains reserve %s", out, reserveOut)
		}
		kBefore := new(big.Int).Mul(reserveIn.BigInt(), reserveOut.BigInt())
		kAfter := new(big.Int).Mul(reserveIn.Add(amountIn).BigInt(), reserveOut.Sub(out).BigInt())
		if kAfter.Cmp(kBefore) < 0 {
			t.Fatalf("k decreased from %s to %s", kBefore, kAfter)
		}
	})
}

func TestQuote(t *testing.T) {
	got, err := keeper.Quote(math.NewInt(100), math.NewInt(1000), math.NewInt(2000))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(200), got)

	_, err = keeper.Quote(math.NewInt(100), math.ZeroInt(), math.NewInt(2000))
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
}

func TestSwap_Valid(t *testing.T) {
	f, pool := setupPoolForSwaps(t)
	f.Fund(t, trader, tokenA, math.NewInt(10_000))

	out, err := pool.Swap(f.Ctx, trader, trader, math.NewInt(10_000), tokenA, math.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(19_743), out)

	reserveA, reserveB, _ := pool.GetReserves(f.Ctx)
	require.Equal(t, math.NewInt(1_010_000), reserveA)
	require.Equal(t, math.NewInt(2_000_000-19_743), reserveB)

	require.True(t, f.Ledger.BalanceOf(f.Ctx, trader, tokenA).IsZero())
	require.Equal(t, out, f.Ledger.BalanceOf(f.Ctx, trader, tokenB))
	f.RequireInvariants(t)
}

func TestSwap_ConstantProductGrows(t *testing.T) {
	f, pool := setupPoolForSwaps(t)
	f.Fund(t, trader, tokenA, math.NewInt(1_000_000))
	f.Fund(t, trader, tokenB, math.NewInt(1_000_000))

	product := func() *big.Int {
		a, b, _ := pool.GetReserves(f.Ctx)
		return new(big.Int).Mul(a.BigInt(), b.BigInt())
	}

	for i, leg := range []struct {
		asset  string
		amount int64
	}{{tokenA, 50_000}, {tokenB, 120_000}, {tokenA, 7}, {tokenB, 333_333}} {
		before := product()
		_, err := pool.Swap(f.Ctx, trader, trader, math.NewInt(leg.amount), leg.asset, math.ZeroInt())
		require.NoError(t, err, "swap %d", i)
		require.Equal(t, 1, product().Cmp(before), "swap %d must grow k", i)
	}
	f.RequireInvariants(t)
}

func TestSwap_RecipientReceivesOutput(t *testing.T) {
	f, pool := setupPoolForSwaps(t)
	f.Fund(t, trader, tokenB, math.NewInt(5_000))

	out, err := pool.Swap(f.Ctx, trader, "recipient", math.NewInt(5_000), tokenB, math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, out, f.Ledger.BalanceOf(f.Ctx, "recipient", tokenA))
	require.True(t, f.Ledger.BalanceOf(f.Ctx, trader, tokenA).IsZero())
}

func TestSwap_Rejections(t *testing.T) {
	f, pool := setupPoolForSwaps(t)
	f.Fund(t, trader, tokenA, math.NewInt(10_000))

	tests := []struct {
		name      string
		trader    string
		amountIn  math.Int
		assetIn   string
		minOut    math.Int
		wantErr   error
		checkFunc func(error) bool
	}{
		{name: "zero amount", trader: trader, amountIn: math.ZeroInt(), assetIn: tokenA, minOut: math.ZeroInt(), wantErr: types.ErrInvalidAmount, checkFunc: types.IsValidationError},
		{name: "foreign asset", trader: trader, amountIn: math.NewInt(100), assetIn: tokenC, minOut: math.ZeroInt(), wantErr: types.ErrInvalidAsset, checkFunc: types.IsValidationError},
		{name: "dust output", trader: trader, amountIn: math.NewInt(1), assetIn: tokenA, minOut: math.ZeroInt(), wantErr: types.ErrInsufficientOutputAmount, checkFunc: types.IsValidationError},
		{name: "slippage", trader: trader, amountIn: math.NewInt(10_000), assetIn: tokenA, minOut: math.NewInt(19_744), wantErr: types.ErrSlippage, checkFunc: types.IsSlippageError},
		{name: "reserved trader", trader: types.ModuleAccount, amountIn: math.NewInt(100), assetIn: tokenA, minOut: math.ZeroInt(), wantErr: types.ErrInvalidAddress, checkFunc: types.IsValidationError},
		{name: "negative minimum", trader: trader, amountIn: math.NewInt(100), assetIn: tokenA, minOut: math.NewInt(-1), wantErr: types.ErrInvalidAmount, checkFunc: types.IsValidationError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := pool.State(f.Ctx)
			_, err := pool.Swap(f.Ctx, tc.trader, tc.trader, tc.amountIn, tc.assetIn, tc.minOut)
			require.ErrorIs(t, err, tc.wantErr)
			require.True(t, tc.checkFunc(err))
			require.Equal(t, before, pool.State(f.Ctx))
			require.Equal(t, math.NewInt(10_000), f.Ledger.BalanceOf(f.Ctx, trader, tokenA))
		})
	}
}

func TestSwap_EmptyPool(t *testing.T) {
	f := keepertest.DexKeeper(t)
	pool, err := f.Keeper.CreatePair(f.Ctx, tokenA, tokenB)
	require.NoError(t, err)
	f.Fund(t, trader, tokenA, math.NewInt(100))

	_, err = pool.Swap(f.Ctx, trader, trader, math.NewInt(100), tokenA, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
	require.True(t, types.IsStateError(err))

	// an empty pool is reported before a bad amount
	for _, amount := range []math.Int{math.ZeroInt(), math.NewInt(-5)} {
		_, err = pool.Swap(f.Ctx, trader, trader, amount, tokenA, math.ZeroInt())
		require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
		require.False(t, types.IsValidationError(err))
	}
	require.Equal(t, math.NewInt(100), f.Ledger.BalanceOf(f.Ctx, trader, tokenA))
}

func TestSwap_WithoutAllowanceChangesNothing(t *testing.T) {
	f, pool := setupPoolForSwaps(t)
	require.NoError(t, f.Ledger.Mint(f.Ctx, trader, tokenA, math.NewInt(10_000)))
	before := pool.State(f.Ctx)

	_, err := pool.Swap(f.Ctx, trader, trader, math.NewInt(10_000), tokenA, math.ZeroInt())
	require.Error(t, err)
	require.Equal(t, before, pool.State(f.Ctx))
	require.Equal(t, math.NewInt(10_000), f.Ledger.BalanceOf(f.Ctx, trader, tokenA))
	f.RequireInvariants(t)
}

func TestSpotPrice(t *testing.T) {
	f, pool := setupPoolForSwaps(t)

	price, err := pool.SpotPrice(f.Ctx, tokenA)
	require.NoError(t, err)
	require.True(t, math.LegacyNewDec(2).Equal(price), price.String())

	price, err = pool.SpotPrice(f.Ctx, tokenB)
	require.NoError(t, err)
	require.True(t, math.LegacyNewDecWithPrec(5, 1).Equal(price), price.String())

	_, err = pool.SpotPrice(f.Ctx, tokenC)
	require.ErrorIs(t, err, types.ErrInvalidAsset)
}
