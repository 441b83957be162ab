package keeper_test

import (
	"math/big"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/x/dex/keeper"
	"github.com/paw-chain/pawswap/x/dex/types"
)

func TestObserve_AccumulatesPrice(t *testing.T) {
	f, pool := setupPoolForSwaps(t)

	start := pool.Observe(f.Ctx, f.Clock.Now())
	require.True(t, start.PriceACumulative.IsZero())
	require.True(t, start.PriceBCumulative.IsZero())

	f.Clock.Advance(10 * time.Second)
	end := pool.Observe(f.Ctx, f.Clock.Now())

	priceA, priceB, err := keeper.TimeWeightedPrices(start, end)
	require.NoError(t, err)
	require.True(t, math.LegacyNewDec(2).Equal(priceA), priceA.String())
	require.True(t, math.LegacyNewDecWithPrec(5, 1).Equal(priceB), priceB.String())

	// observing does not change the pool
	_, _, lastUpdated := pool.GetReserves(f.Ctx)
	require.Equal(t, start.Timestamp, lastUpdated)
}

func TestObserve_FollowsReserveChanges(t *testing.T) {
	f, pool := setupPoolForSwaps(t)
	f.Fund(t, trader, tokenA, math.NewInt(500_000))

	f.Clock.Advance(10 * time.Second)
	beforeSwap := pool.Observe(f.Ctx, f.Clock.Now())
	_, err := pool.Swap(f.Ctx, trader, trader, math.NewInt(500_000), tokenA, math.ZeroInt())
	require.NoError(t, err)

	// the swap folded the elapsed interval into the stored accumulators
	state := pool.State(f.Ctx)
	require.Equal(t, beforeSwap.PriceACumulative, state.PriceACumulative)
	require.Equal(t, f.Clock.Now(), state.LastUpdated)

	f.Clock.Advance(30 * time.Second)
	afterSwap := pool.Observe(f.Ctx, f.Clock.Now())
	twapA, _, err := keeper.TimeWeightedPrices(beforeSwap, afterSwap)
	require.NoError(t, err)

	spotA, err := pool.SpotPrice(f.Ctx, tokenA)
	require.NoError(t, err)
	require.True(t, twapA.Sub(spotA).Abs().LTE(math.LegacyNewDecWithPrec(1, 17)), "twap %s spot %s", twapA, spotA)
	require.True(t, twapA.LT(math.LegacyNewDec(2)))
}

func TestTimeWeightedPrices_Errors(t *testing.T) {
	obs := keeper.Observation{
		PriceACumulative: math.ZeroInt(),
		PriceBCumulative: math.ZeroInt(),
		Timestamp:        time.Unix(100, 0),
	}
	_, _, err := keeper.TimeWeightedPrices(obs, obs)
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestTimeWeightedPrices_Wraparound(t *testing.T) {
	oneUnit := new(big.Int).Exp(big.NewInt(10), big.NewInt(types.AmountPrecision), nil)
	nearMax := new(big.Int).Lsh(big.NewInt(1), math.MaxBitLen)
	nearMax.Sub(nearMax, oneUnit)

	start := keeper.Observation{
		PriceACumulative: math.NewIntFromBigInt(nearMax),
		PriceBCumulative: math.ZeroInt(),
		Timestamp:        time.Unix(100, 0),
	}
	end := keeper.Observation{
		PriceACumulative: math.NewIntFromBigInt(oneUnit),
		PriceBCumulative: math.ZeroInt(),
		Timestamp:        time.Unix(101, 0),
	}

	priceA, priceB, err := keeper.TimeWeightedPrices(start, end)
	require.NoError(t, err)
	require.True(t, math.LegacyNewDec(2).Equal(priceA), priceA.String())
	require.True(t, priceB.IsZero())
}
