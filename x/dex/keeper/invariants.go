package keeper

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// Invariant checks one property of the whole registry and reports a
// human-readable message plus whether the property is broken.
type Invariant func(ctx context.Context) (msg string, broken bool)

// NamedInvariant pairs an invariant with its route name.
type NamedInvariant struct {
	Route     string
	Invariant Invariant
}

// RegisteredInvariants returns every DEX invariant in evaluation order.
func RegisteredInvariants(k *Keeper) []NamedInvariant {
	return []NamedInvariant{
		{"pool-reserves", PoolReservesInvariant(k)},
		{"pool-shares", PoolSharesInvariant(k)},
		{"positive-reserves", PositiveReservesInvariant(k)},
		{"constant-product", ConstantProductInvariant(k)},
	}
}

// AllInvariants runs all invariants of the DEX module and stops at the first broken one.
func AllInvariants(k *Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		for _, inv := range RegisteredInvariants(k) {
			if res, stop := inv.Invariant(ctx); stop {
				return res, stop
			}
		}
		return formatInvariant("all", "every invariant holds\n"), false
	}
}

func formatInvariant(route, msg string) string {
	return fmt.Sprintf("%s: %s invariant\n%s", types.ModuleName, route, msg)
}

// PoolReservesInvariant checks that custody holds at least the sum of every
// pool's reserve of each asset. Reserves and custody balances are read under
// the read locks of every pool, so no settlement is in flight while they are
// compared.
func PoolReservesInvariant(k *Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		pools := k.GetAllPools()
		owed := make(map[string]*big.Int)
		balances := make(map[string]math.Int)
		_ = k.withPoolsRead(ctx, pools, func() error {
			for _, pool := range pools {
				state := pool.stateLocked()
				for asset, reserve := range map[string]math.Int{state.AssetA: state.ReserveA, state.AssetB: state.ReserveB} {
					if owed[asset] == nil {
						owed[asset] = new(big.Int)
					}
					owed[asset].Add(owed[asset], reserve.BigInt())
				}
			}
			for asset := range owed {
				balances[asset] = k.ledger.BalanceOf(ctx, types.ModuleAccount, asset)
			}
			return nil
		})

		var msg strings.Builder
		count := 0
		for asset, total := range owed {
			if balance := balances[asset]; balance.BigInt().Cmp(total) < 0 {
				count++
				fmt.Fprintf(&msg, "custody holds %s%s, pools owe %s\n", balance, asset, total)
			}
		}
		return formatInvariant("pool-reserves",
			fmt.Sprintf("found %d under-collateralized assets\n%s", count, msg.String())), count != 0
	}
}

// PoolSharesInvariant checks that every share ledger sums to the pool's total shares.
func PoolSharesInvariant(k *Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var msg strings.Builder
		count := 0
		for _, pool := range k.GetAllPools() {
			gen := pool.export(ctx)
			sum := new(big.Int)
			for _, rec := range gen.Shares {
				sum.Add(sum, rec.Shares.BigInt())
			}
			if sum.Cmp(gen.TotalShares.BigInt()) != 0 {
				count++
				fmt.Fprintf(&msg, "pool %d: shares sum %s != total shares %s\n", gen.Id, sum, gen.TotalShares)
			}
		}
		return formatInvariant("pool-shares",
			fmt.Sprintf("found %d pools with inconsistent shares\n%s", count, msg.String())), count != 0
	}
}

// PositiveReservesInvariant checks that a pool has reserves on both sides
// exactly when it has outstanding shares.
func PositiveReservesInvariant(k *Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var msg strings.Builder
		count := 0
		for _, pool := range k.GetAllPools() {
			if err := pool.State(ctx).Validate(); err != nil {
				count++
				fmt.Fprintf(&msg, "%s\n", err)
			}
		}
		return formatInvariant("positive-reserves",
			fmt.Sprintf("found %d pools with invalid reserves\n%s", count, msg.String())), count != 0
	}
}

// ConstantProductInvariant checks totalShares^2 <= reserveA*reserveB for every
// pool with two positive reserves. Minting rounds down, burning pays out
// rounded down and swaps only grow the product, so the value of a share can
// never fall below its issue value.
func ConstantProductInvariant(k *Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var msg strings.Builder
		count := 0
		for _, pool := range k.GetAllPools() {
			state := pool.State(ctx)
			if !state.ReserveA.IsPositive() || !state.ReserveB.IsPositive() {
				continue
			}
			kValue := product(state.ReserveA, state.ReserveB)
			sharesSquared := product(state.TotalShares, state.TotalShares)
			if sharesSquared.Cmp(kValue) > 0 {
				count++
				fmt.Fprintf(&msg, "pool %d: shares^2 (%s) exceeds k (%s)\n", state.Id, sharesSquared, kValue)
			}
		}
		return formatInvariant("constant-product",
			fmt.Sprintf("found %d pools with diluted shares\n%s", count, msg.String())), count != 0
	}
}
