// Package keeper implements the constant-product exchange: the pool registry,
// the liquidity pools and the multi-hop router.
//
// # Core Functionality
//
// Registry: Keeper owns every pool, keyed by the unordered pair of its assets
// and listed in creation order. Pools are created explicitly with CreatePair
// or lazily by the first Router.AddLiquidity for a pair.
//
// Liquidity Pools: each LiquidityPool holds two reserves and a share ledger.
// The first deposit mints sqrt(a*b) shares and locks Params.MinimumLiquidity
// of them forever; later deposits are trimmed to the reserve ratio.
//
// Token Swaps: GetAmountOut prices a swap with the fee taken from the input,
// GetAmountIn is its exact minimal inverse. Reserves never drain and the
// product of the reserves never shrinks.
//
// Router: multi-hop swaps along caller-supplied paths, deadline and slippage
// envelopes, and quoting. A path either executes entirely or not at all.
//
// # Custody and Settlement
//
// Reserves are held by types.ModuleAccount in the TokenLedger. Inputs are
// pulled with TransferFrom against an allowance granted to the module
// account; outputs are paid with Transfer. A failed transfer restores every
// touched pool from its snapshot and reverses the transfers already made.
//
// # Concurrency
//
// Every pool has its own RWMutex. Operations touching several pools lock them
// in creation order, so any two routes may run concurrently. A call made
// while holding a pool, typically from a ledger callback, may read that pool
// but any mutation fails with ErrReentrancy.
//
// # Observability
//
// Prometheus metrics are registered once per process (see DEXMetrics).
// Invariants are exposed through RegisteredInvariants and AllInvariants.
package keeper
