package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"

	dexkeeper "github.com/paw-chain/pawswap/x/dex/keeper"
	dextypes "github.com/paw-chain/pawswap/x/dex/types"
	ledgerkeeper "github.com/paw-chain/pawswap/x/ledger/keeper"
)

// Name is the application name used for logs and the default home directory.
const Name = "pawswap"

// App wires the token ledger, the pool registry and the router together.
type App struct {
	logger log.Logger
	db     dbm.DB

	// persistent backends keep a registry snapshot next to the ledger
	persistent bool
	loaded     bool
	persistMu  sync.Mutex

	LedgerKeeper *ledgerkeeper.Keeper
	DexKeeper    *dexkeeper.Keeper
	Router       *dexkeeper.Router
}

// Option configures an App.
type Option func(*options)

type options struct {
	dexOpts []dexkeeper.Option
}

// WithDexOptions passes extra options to the dex keeper, after the params
// taken from the config.
func WithDexOptions(opts ...dexkeeper.Option) Option {
	return func(o *options) { o.dexOpts = append(o.dexOpts, opts...) }
}

// New opens the ledger database and builds the keepers.
func New(cfg Config, logger log.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := openDB(cfg.Ledger)
	if err != nil {
		return nil, err
	}

	ledger := ledgerkeeper.NewKeeper(db, logger)
	dexOpts := append([]dexkeeper.Option{dexkeeper.WithParams(cfg.DexParams())}, o.dexOpts...)
	dex, err := dexkeeper.NewKeeper(ledger, logger, dexOpts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("application wired", "ledger_backend", cfg.Ledger.Backend, "params", dex.Params().String())
	a := &App{
		logger:       logger,
		db:           db,
		persistent:   strings.ToLower(cfg.Ledger.Backend) == LedgerBackendGoLevelDB,
		LedgerKeeper: ledger,
		DexKeeper:    dex,
		Router:       dexkeeper.NewRouter(dex),
	}
	if a.persistent {
		dex.SetHooks(dextypes.NewMultiDexHooks(stateHooks{app: a}))
	}
	return a, nil
}

func openDB(cfg LedgerConfig) (dbm.DB, error) {
	switch strings.ToLower(cfg.Backend) {
	case LedgerBackendMemDB:
		return dbm.NewMemDB(), nil
	case LedgerBackendGoLevelDB:
		db, err := dbm.NewDB(ledgerDBName, dbm.GoLevelDBBackend, cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("open ledger database in %s: %w", cfg.Dir, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

// Logger returns the application logger.
func (a *App) Logger() log.Logger {
	return a.logger
}

// CheckInvariants runs every registered dex invariant.
func (a *App) CheckInvariants(ctx context.Context) (string, bool) {
	return dexkeeper.AllInvariants(a.DexKeeper)(ctx)
}

// Close saves the registry snapshot of a loaded persistent app and releases
// the ledger database.
func (a *App) Close() error {
	if a.loaded {
		if err := a.persistDexState(context.Background()); err != nil {
			a.logger.Error("failed to persist registry", "error", err)
		}
	}
	return a.db.Close()
}
