package keeper

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// poolSeq hands out the global lock order of pools.
var poolSeq atomic.Uint64

// LiquidityPool is the reserve pair and share ledger of one asset pair.
// Every field below mu is guarded by it.
type LiquidityPool struct {
	k   *Keeper
	key types.PairKey
	seq uint64

	mu sync.RWMutex
	// id is assigned when the pool is published in the registry and never changes after.
	id uint64
	// abandoned marks a lazily created pool whose first deposit failed.
	abandoned bool

	reserveA    math.Int
	reserveB    math.Int
	totalShares math.Int
	shares      map[string]math.Int
	lastUpdated time.Time

	priceACumulative math.Int
	priceBCumulative math.Int
}

func newLiquidityPool(k *Keeper, key types.PairKey) *LiquidityPool {
	return &LiquidityPool{
		k:                k,
		key:              key,
		seq:              poolSeq.Add(1),
		reserveA:         math.ZeroInt(),
		reserveB:         math.ZeroInt(),
		totalShares:      math.ZeroInt(),
		shares:           make(map[string]math.Int),
		priceACumulative: math.ZeroInt(),
		priceBCumulative: math.ZeroInt(),
	}
}

// CreatePair registers an empty pool for the unordered pair {x, y}.
func (k *Keeper) CreatePair(ctx context.Context, x, y string) (*LiquidityPool, error) {
	key, err := types.NewPairKey(x, y)
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	if err := k.checkCanCreate(key); err != nil {
		k.mu.Unlock()
		return nil, err
	}
	pool := newLiquidityPool(k, key)
	k.publish(pool)
	k.mu.Unlock()

	k.afterPairCreated(ctx, pool)
	return pool, nil
}

// checkCanCreate must be called with k.mu held.
func (k *Keeper) checkCanCreate(key types.PairKey) error {
	if existing, ok := k.byKey[key]; ok {
		return types.ErrPairExists.Wrapf("%s is pool %d", key, existing.id)
	}
	if _, ok := k.pending[key]; ok {
		return types.ErrPairExists.Wrapf("%s is being created", key)
	}
	if uint32(len(k.pools)+len(k.pending)) >= k.params.MaxPools {
		return types.ErrMaxPoolsReached.Wrapf("limit %d", k.params.MaxPools)
	}
	return nil
}

// publish appends pool to the registry. It must be called with k.mu held and,
// for a pool other callers may already reference, with pool.mu held too.
func (k *Keeper) publish(pool *LiquidityPool) {
	pool.id = uint64(len(k.pools)) + 1
	k.pools = append(k.pools, pool)
	k.byKey[pool.key] = pool
	delete(k.pending, pool.key)
	k.metrics.PoolsTotal.Set(float64(len(k.pools)))
}

// resolveForDeposit returns the pool of key, creating a pending one when none
// exists. A created pool is returned locked and stays invisible to GetPair and
// AllPairs until the caller publishes it.
func (k *Keeper) resolveForDeposit(key types.PairKey) (pool *LiquidityPool, created bool, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if pool, ok := k.byKey[key]; ok {
		return pool, false, nil
	}
	if pool, ok := k.pending[key]; ok {
		return pool, false, nil
	}
	if err := k.checkCanCreate(key); err != nil {
		return nil, false, err
	}
	pool = newLiquidityPool(k, key)
	pool.mu.Lock()
	k.pending[key] = pool
	return pool, true, nil
}

// finishPending publishes or drops a pool returned by resolveForDeposit. The
// caller still holds pool.mu.
func (k *Keeper) finishPending(pool *LiquidityPool, ok bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if ok {
		k.publish(pool)
		return
	}
	pool.abandoned = true
	delete(k.pending, pool.key)
}

// GetPair returns the pool of the unordered pair {x, y}. A missing pool, or a
// malformed pair, is reported by ok == false.
func (k *Keeper) GetPair(x, y string) (pool *LiquidityPool, ok bool) {
	key, err := types.NewPairKey(x, y)
	if err != nil {
		return nil, false
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	pool, ok = k.byKey[key]
	return pool, ok
}

// AllPairsLength returns the number of registered pools.
func (k *Keeper) AllPairsLength() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pools)
}

// AllPairs returns the pool created index-th (zero based).
func (k *Keeper) AllPairs(index int) (*LiquidityPool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if index < 0 || index >= len(k.pools) {
		return nil, types.ErrInvalidPairIndex.Wrapf("index %d, %d pairs", index, len(k.pools))
	}
	return k.pools[index], nil
}

// GetPool returns a pool by id.
func (k *Keeper) GetPool(id uint64) (*LiquidityPool, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if id == 0 || id > uint64(len(k.pools)) {
		return nil, false
	}
	return k.pools[id-1], true
}

// IteratePools calls cb for every pool in creation order until it returns true.
func (k *Keeper) IteratePools(cb func(pool *LiquidityPool) (stop bool)) {
	for _, pool := range k.GetAllPools() {
		if cb(pool) {
			return
		}
	}
}

// GetAllPools returns every pool in creation order.
func (k *Keeper) GetAllPools() []*LiquidityPool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pools := make([]*LiquidityPool, len(k.pools))
	copy(pools, k.pools)
	return pools
}

// ID returns the pool id, its creation index plus one.
func (p *LiquidityPool) ID() uint64 {
	return p.id
}

// Key returns the canonical pair key.
func (p *LiquidityPool) Key() types.PairKey {
	return p.key
}

// Assets returns both assets in canonical order.
func (p *LiquidityPool) Assets() (assetA, assetB string) {
	return p.key.AssetA, p.key.AssetB
}

// GetReserves returns both reserves in canonical order and the time of the last reserve change.
func (p *LiquidityPool) GetReserves(ctx context.Context) (reserveA, reserveB math.Int, lastUpdated time.Time) {
	defer p.rlock(ctx)()
	return p.reserveA, p.reserveB, p.lastUpdated
}

// TotalShares returns the outstanding share supply.
func (p *LiquidityPool) TotalShares(ctx context.Context) math.Int {
	defer p.rlock(ctx)()
	return p.totalShares
}

// SharesOf returns holder's share balance.
func (p *LiquidityPool) SharesOf(ctx context.Context, holder string) math.Int {
	defer p.rlock(ctx)()
	return p.sharesOf(holder)
}

// State returns a copy of the pool.
func (p *LiquidityPool) State(ctx context.Context) types.PoolState {
	defer p.rlock(ctx)()
	return p.stateLocked()
}

func (p *LiquidityPool) stateLocked() types.PoolState {
	return types.PoolState{
		Id:               p.id,
		AssetA:           p.key.AssetA,
		AssetB:           p.key.AssetB,
		ReserveA:         p.reserveA,
		ReserveB:         p.reserveB,
		TotalShares:      p.totalShares,
		LastUpdated:      p.lastUpdated,
		PriceACumulative: p.priceACumulative,
		PriceBCumulative: p.priceBCumulative,
	}
}

// shareRecords returns the share ledger in map order.
func (p *LiquidityPool) shareRecords() []types.ShareRecord {
	records := make([]types.ShareRecord, 0, len(p.shares))
	for holder, shares := range p.shares {
		records = append(records, types.ShareRecord{Holder: holder, Shares: shares})
	}
	return records
}

func (p *LiquidityPool) sharesOf(holder string) math.Int {
	if shares, ok := p.shares[holder]; ok {
		return shares
	}
	return math.ZeroInt()
}

func (p *LiquidityPool) setShares(holder string, shares math.Int) {
	if shares.IsZero() {
		delete(p.shares, holder)
		return
	}
	p.shares[holder] = shares
}

// reservesFor orients the reserves for a trade selling assetIn.
func (p *LiquidityPool) reservesFor(assetIn string) (reserveIn, reserveOut math.Int, assetOut string, err error) {
	switch assetIn {
	case p.key.AssetA:
		return p.reserveA, p.reserveB, p.key.AssetB, nil
	case p.key.AssetB:
		return p.reserveB, p.reserveA, p.key.AssetA, nil
	default:
		return math.Int{}, math.Int{}, "", types.ErrInvalidAsset.Wrapf("%s is not part of pool %d (%s)", assetIn, p.id, p.key)
	}
}

// poolSnapshot holds everything an operation may change in one pool.
type poolSnapshot struct {
	reserveA, reserveB, totalShares    math.Int
	lastUpdated                        time.Time
	priceACumulative, priceBCumulative math.Int
	shares                             map[string]math.Int
}

// snapshot copies the pool scalars and the share balances of holders.
func (p *LiquidityPool) snapshot(holders ...string) poolSnapshot {
	s := poolSnapshot{
		reserveA:         p.reserveA,
		reserveB:         p.reserveB,
		totalShares:      p.totalShares,
		lastUpdated:      p.lastUpdated,
		priceACumulative: p.priceACumulative,
		priceBCumulative: p.priceBCumulative,
		shares:           make(map[string]math.Int, len(holders)),
	}
	for _, h := range holders {
		s.shares[h] = p.sharesOf(h)
	}
	return s
}

func (p *LiquidityPool) restore(s poolSnapshot) {
	p.reserveA, p.reserveB, p.totalShares = s.reserveA, s.reserveB, s.totalShares
	p.lastUpdated = s.lastUpdated
	p.priceACumulative, p.priceBCumulative = s.priceACumulative, s.priceBCumulative
	for h, shares := range s.shares {
		p.setShares(h, shares)
	}
}
