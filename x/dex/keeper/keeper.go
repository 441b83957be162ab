package keeper

import (
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// Keeper is the pool registry. It owns every pool, hands them out by pair key
// or creation index, and holds the collaborators pools need to settle trades.
type Keeper struct {
	ledger  types.TokenLedger
	logger  log.Logger
	metrics *DEXMetrics
	hooks   types.DexHooks
	params  types.Params
	clock   func() time.Time
	tracer  trace.Tracer

	// mu guards the registry maps and list, never pool state.
	mu      sync.RWMutex
	pools   []*LiquidityPool
	byKey   map[types.PairKey]*LiquidityPool
	pending map[types.PairKey]*LiquidityPool
}

// Option configures a Keeper.
type Option func(*Keeper)

// WithParams overrides DefaultParams.
func WithParams(params types.Params) Option {
	return func(k *Keeper) { k.params = params }
}

// WithClock replaces time.Now, used for deadlines and price accumulators.
func WithClock(clock func() time.Time) Option {
	return func(k *Keeper) { k.clock = clock }
}

// NewKeeper creates a new dex Keeper instance
func NewKeeper(ledger types.TokenLedger, logger log.Logger, opts ...Option) (*Keeper, error) {
	if ledger == nil {
		return nil, fmt.Errorf("NewKeeper: token ledger is required")
	}
	k := &Keeper{
		ledger:  ledger,
		logger:  logger.With("module", "x/"+types.ModuleName),
		metrics: NewDEXMetrics(),
		params:  types.DefaultParams(),
		clock:   time.Now,
		tracer:  defaultTracer(),
		byKey:   make(map[types.PairKey]*LiquidityPool),
		pending: make(map[types.PairKey]*LiquidityPool),
	}
	for _, opt := range opts {
		opt(k)
	}
	if err := k.params.Validate(); err != nil {
		return nil, fmt.Errorf("NewKeeper: %w", err)
	}
	return k, nil
}

// SetHooks sets the DEX hooks. It may only be called once.
func (k *Keeper) SetHooks(hooks types.DexHooks) *Keeper {
	if k.hooks != nil {
		panic("cannot set dex hooks twice")
	}
	k.hooks = hooks
	return k
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// Params returns the engine parameters.
func (k *Keeper) Params() types.Params {
	return k.params
}

// Ledger returns the token ledger backing pool custody.
func (k *Keeper) Ledger() types.TokenLedger {
	return k.ledger
}

func (k *Keeper) now() time.Time {
	return k.clock().UTC()
}

// Now reads the keeper clock.
func (k *Keeper) Now() time.Time {
	return k.now()
}
