package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/x/dex/types"
)

func validPool(id uint64, assetA, assetB string) types.PoolGenesis {
	return types.PoolGenesis{
		PoolState: types.PoolState{
			Id:               id,
			AssetA:           assetA,
			AssetB:           assetB,
			ReserveA:         math.NewInt(10_000),
			ReserveB:         math.NewInt(40_000),
			TotalShares:      math.NewInt(20_000),
			PriceACumulative: math.ZeroInt(),
			PriceBCumulative: math.ZeroInt(),
		},
		Shares: []types.ShareRecord{
			{Holder: types.LockedSharesHolder, Shares: math.NewInt(1000)},
			{Holder: "alice", Shares: math.NewInt(19_000)},
		},
	}
}

func TestGenesisState_Validate(t *testing.T) {
	tests := []struct {
		desc     string
		genState func() *types.GenesisState
		valid    bool
	}{
		{
			desc:     "default is valid",
			genState: types.DefaultGenesis,
			valid:    true,
		},
		{
			desc: "valid genesis state",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				gs.Pools = []types.PoolGenesis{validPool(1, "a", "b"), validPool(2, "b", "c")}
				return gs
			},
			valid: true,
		},
		{
			desc: "empty pool without shares",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				gs.Pools = []types.PoolGenesis{{PoolState: types.PoolState{
					Id: 1, AssetA: "a", AssetB: "b",
					ReserveA: math.ZeroInt(), ReserveB: math.ZeroInt(), TotalShares: math.ZeroInt(),
				}}}
				return gs
			},
			valid: true,
		},
		{
			desc: "invalid params",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				gs.Params.SwapFee = types.FeeDenominator
				return gs
			},
		},
		{
			desc: "ids out of sequence",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				gs.Pools = []types.PoolGenesis{validPool(2, "a", "b")}
				return gs
			},
		},
		{
			desc: "duplicate pair",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				gs.Pools = []types.PoolGenesis{validPool(1, "a", "b"), validPool(2, "a", "b")}
				return gs
			},
		},
		{
			desc: "assets not canonical",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				gs.Pools = []types.PoolGenesis{validPool(1, "b", "a")}
				return gs
			},
		},
		{
			desc: "shares do not sum to total",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				pool := validPool(1, "a", "b")
				pool.Shares[1].Shares = math.NewInt(18_000)
				gs.Pools = []types.PoolGenesis{pool}
				return gs
			},
		},
		{
			desc: "duplicate holder",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				pool := validPool(1, "a", "b")
				pool.Shares = []types.ShareRecord{
					{Holder: "alice", Shares: math.NewInt(10_000)},
					{Holder: "alice", Shares: math.NewInt(10_000)},
				}
				gs.Pools = []types.PoolGenesis{pool}
				return gs
			},
		},
		{
			desc: "reserves without shares",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				pool := validPool(1, "a", "b")
				pool.TotalShares = math.ZeroInt()
				pool.Shares = nil
				gs.Pools = []types.PoolGenesis{pool}
				return gs
			},
		},
		{
			desc: "shares with an empty reserve",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				pool := validPool(1, "a", "b")
				pool.ReserveB = math.ZeroInt()
				gs.Pools = []types.PoolGenesis{pool}
				return gs
			},
		},
		{
			desc: "more pools than allowed",
			genState: func() *types.GenesisState {
				gs := types.DefaultGenesis()
				gs.Params.MaxPools = 1
				gs.Pools = []types.PoolGenesis{validPool(1, "a", "b"), validPool(2, "b", "c")}
				return gs
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.genState().Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, types.DefaultParams().Validate())

	params := types.DefaultParams()
	params.MaxHops = 0
	require.ErrorIs(t, params.Validate(), types.ErrInvalidParams)

	params = types.DefaultParams()
	params.MaxPools = 0
	require.ErrorIs(t, params.Validate(), types.ErrInvalidParams)

	params = types.DefaultParams()
	params.MinimumLiquidity = math.NewInt(-1)
	require.ErrorIs(t, params.Validate(), types.ErrInvalidParams)

	require.Contains(t, types.DefaultParams().String(), "swap_fee=3/1000")
}
