package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/x/dex/types"
)

func TestSwapPathValidate(t *testing.T) {
	tests := []struct {
		name    string
		path    types.SwapPath
		maxHops uint32
		wantErr bool
	}{
		{name: "single hop", path: types.SwapPath{"a", "b"}, maxHops: 5},
		{name: "three hops", path: types.SwapPath{"a", "b", "c", "d"}, maxHops: 5},
		{name: "revisits asset", path: types.SwapPath{"a", "b", "a"}, maxHops: 5},
		{name: "empty", path: types.SwapPath{}, maxHops: 5, wantErr: true},
		{name: "one asset", path: types.SwapPath{"a"}, maxHops: 5, wantErr: true},
		{name: "self hop", path: types.SwapPath{"a", "a"}, maxHops: 5, wantErr: true},
		{name: "empty asset", path: types.SwapPath{"a", ""}, maxHops: 5, wantErr: true},
		{name: "too long", path: types.SwapPath{"a", "b", "c"}, maxHops: 1, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.path.Validate(tc.maxHops)
			if tc.wantErr {
				require.ErrorIs(t, err, types.ErrInvalidPath)
				require.True(t, types.IsValidationError(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseSwapPath(t *testing.T) {
	path := types.ParseSwapPath("upaw, uusdc ,uatom")
	require.Equal(t, types.SwapPath{"upaw", "uusdc", "uatom"}, path)
	require.Equal(t, 2, path.Hops())
	require.Equal(t, "upaw -> uusdc -> uatom", path.String())
	require.Equal(t, 0, types.SwapPath(nil).Hops())
}

func TestSwapResultEnds(t *testing.T) {
	res := types.SwapResult{
		Path:    types.SwapPath{"a", "b", "c"},
		Amounts: []math.Int{math.NewInt(100), math.NewInt(90), math.NewInt(80)},
	}
	require.Equal(t, math.NewInt(100), res.AmountIn())
	require.Equal(t, math.NewInt(80), res.AmountOut())
}
