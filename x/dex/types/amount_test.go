package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/pawswap/x/dex/types"
)

func TestParseAmount(t *testing.T) {
	oneUnit := math.NewIntWithDecimal(1, types.AmountPrecision)

	tests := []struct {
		in      string
		want    math.Int
		wantErr error
	}{
		{in: "1", want: oneUnit},
		{in: "1.5", want: oneUnit.MulRaw(3).QuoRaw(2)},
		{in: " 0.000000000000000001 ", want: math.OneInt()},
		{in: "0", want: math.ZeroInt()},
		{in: "-1", wantErr: types.ErrInvalidAmount},
		{in: "abc", wantErr: types.ErrInvalidAmount},
		{in: "0.0000000000000000001", wantErr: types.ErrInvalidAmount},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := types.ParseAmount(tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "1.5", types.FormatAmount(math.NewIntWithDecimal(15, types.AmountPrecision-1)))
	require.Equal(t, "2", types.FormatAmount(math.NewIntWithDecimal(2, types.AmountPrecision)))
	require.Equal(t, "0.000000000000000001", types.FormatAmount(math.OneInt()))
	require.Equal(t, "0", types.FormatAmount(math.ZeroInt()))
	require.Equal(t, "0", types.FormatAmount(math.Int{}))
}

func TestFormatParseAmountRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := math.NewIntFromUint64(rapid.Uint64().Draw(t, "v"))
		got, err := types.ParseAmount(types.FormatAmount(v))
		if err != nil {
			t.Fatalf("ParseAmount(FormatAmount(%s)): %v", v, err)
		}
		if !got.Equal(v) {
			t.Fatalf("round trip of %s gave %s", v, got)
		}
	})
}

func TestParseBaseUnits(t *testing.T) {
	v, err := types.ParseBaseUnits(" 1000 ")
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1000), v)

	_, err = types.ParseBaseUnits("-5")
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = types.ParseBaseUnits("1.5")
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}
