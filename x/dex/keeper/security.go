package keeper

import (
	"context"
	"sort"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// heldPoolsKey carries the pools locked by the current call chain. A ledger
// callback that re-enters the engine with the same context is recognized by it.
type heldPoolsKey struct{}

type heldPools map[*LiquidityPool]struct{}

func heldFromContext(ctx context.Context) heldPools {
	held, _ := ctx.Value(heldPoolsKey{}).(heldPools)
	return held
}

// withHeld returns a context that records pools on top of those already held.
func withHeld(ctx context.Context, pools []*LiquidityPool) context.Context {
	parent := heldFromContext(ctx)
	held := make(heldPools, len(parent)+len(pools))
	for p := range parent {
		held[p] = struct{}{}
	}
	for _, p := range pools {
		held[p] = struct{}{}
	}
	return context.WithValue(ctx, heldPoolsKey{}, held)
}

func (p *LiquidityPool) heldBy(ctx context.Context) bool {
	_, ok := heldFromContext(ctx)[p]
	return ok
}

// rlock takes the read lock unless the call chain already holds the pool, in
// which case the caller observes the in-flight state.
func (p *LiquidityPool) rlock(ctx context.Context) (unlock func()) {
	if p.heldBy(ctx) {
		return func() {}
	}
	p.mu.RLock()
	return p.mu.RUnlock
}

// lockOrder deduplicates pools and sorts them into the global lock order.
func lockOrder(pools []*LiquidityPool) []*LiquidityPool {
	seen := make(map[*LiquidityPool]struct{}, len(pools))
	ordered := make([]*LiquidityPool, 0, len(pools))
	for _, p := range pools {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })
	return ordered
}

// lockPools write-locks every pool an operation touches. A pool already held
// by the call chain is a reentrant mutation and is refused.
func (k *Keeper) lockPools(ctx context.Context, operation string, pools ...*LiquidityPool) (context.Context, func(), error) {
	ordered := lockOrder(pools)
	for _, p := range ordered {
		if p.heldBy(ctx) {
			k.metrics.ReentrancyBlocked.WithLabelValues(operation).Inc()
			return ctx, nil, types.ErrReentrancy.Wrapf("%s: pool %s is locked by the calling operation", operation, p.key)
		}
	}
	for _, p := range ordered {
		p.mu.Lock()
	}
	unlock := func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].mu.Unlock()
		}
	}
	return withHeld(ctx, ordered), unlock, nil
}

// withPools executes fn while holding the write locks of pools.
func (k *Keeper) withPools(ctx context.Context, operation string, pools []*LiquidityPool, fn func(ctx context.Context) error) error {
	ctx, unlock, err := k.lockPools(ctx, operation, pools...)
	if err != nil {
		return err
	}
	defer unlock()
	return fn(ctx)
}

// withPoolsRead executes fn while holding the read locks of pools.
func (k *Keeper) withPoolsRead(ctx context.Context, pools []*LiquidityPool, fn func() error) error {
	ordered := lockOrder(pools)
	unlocks := make([]func(), 0, len(ordered))
	defer func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}()
	for _, p := range ordered {
		unlocks = append(unlocks, p.rlock(ctx))
	}
	return fn()
}
