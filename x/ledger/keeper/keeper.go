package keeper

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store/dbadapter"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/paw-chain/pawswap/x/ledger/types"
)

// Keeper is a fungible-asset ledger persisted in a KV store. A single mutex
// serializes every read-modify-write, so each call is atomic on its own.
type Keeper struct {
	mu     sync.Mutex
	store  storetypes.KVStore
	logger log.Logger
}

// NewKeeper creates a ledger keeper backed by db.
func NewKeeper(db dbm.DB, logger log.Logger) *Keeper {
	return &Keeper{
		store:  dbadapter.Store{DB: db},
		logger: logger.With("module", "x/"+types.ModuleName),
	}
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// HasState reports whether any balance, allowance or supply is stored.
func (k *Keeper) HasState() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, store := range []prefix.Store{k.balances(), k.allowances(), k.supplies()} {
		it := store.Iterator(nil, nil)
		valid := it.Valid()
		_ = it.Close()
		if valid {
			return true
		}
	}
	return false
}

func (k *Keeper) balances() prefix.Store {
	return prefix.NewStore(k.store, types.BalanceKeyPrefix)
}

func (k *Keeper) allowances() prefix.Store {
	return prefix.NewStore(k.store, types.AllowanceKeyPrefix)
}

func (k *Keeper) supplies() prefix.Store {
	return prefix.NewStore(k.store, types.SupplyKeyPrefix)
}

func getInt(store storetypes.KVStore, key []byte) sdkmath.Int {
	bz := store.Get(key)
	if bz == nil {
		return sdkmath.ZeroInt()
	}
	var v sdkmath.Int
	if err := v.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("ledger: corrupt value at %x: %w", key, err))
	}
	return v
}

func setInt(store storetypes.KVStore, key []byte, v sdkmath.Int) {
	if v.IsZero() {
		store.Delete(key)
		return
	}
	bz, err := v.Marshal()
	if err != nil {
		panic(fmt.Errorf("ledger: marshal %s: %w", v, err))
	}
	store.Set(key, bz)
}

func validateAmount(amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return errors.Wrapf(types.ErrInvalidAmount, "amount must be non-negative, got %v", amount)
	}
	return nil
}

func validateAsset(asset string) error {
	if asset == "" {
		return errors.Wrap(types.ErrInvalidAsset, "asset cannot be empty")
	}
	return nil
}

// BalanceOf returns holder's balance of asset.
func (k *Keeper) BalanceOf(_ context.Context, holder, asset string) sdkmath.Int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return getInt(k.balances(), types.BalanceKey(holder, asset))
}

// TotalSupply returns the amount of asset minted and not burned.
func (k *Keeper) TotalSupply(_ context.Context, asset string) sdkmath.Int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return getInt(k.supplies(), types.SupplyKey(asset))
}

// Transfer moves amount of asset from one holder to another.
func (k *Keeper) Transfer(_ context.Context, from, to, asset string, amount sdkmath.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.transfer(from, to, asset, amount)
}

// Approve sets the amount spender may move out of owner's balance of asset,
// replacing any previous allowance.
func (k *Keeper) Approve(_ context.Context, owner, spender, asset string, amount sdkmath.Int) error {
	if err := types.ValidateAccount(owner); err != nil {
		return err
	}
	if err := types.ValidateAccount(spender); err != nil {
		return err
	}
	if err := validateAsset(asset); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	setInt(k.allowances(), types.AllowanceKey(owner, spender, asset), amount)
	k.logger.Debug("allowance set", "owner", owner, "spender", spender, "asset", asset, "amount", amount.String())
	return nil
}

// Allowance returns the amount spender may still move out of owner's balance of asset.
func (k *Keeper) Allowance(_ context.Context, owner, spender, asset string) sdkmath.Int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return getInt(k.allowances(), types.AllowanceKey(owner, spender, asset))
}

// TransferFrom moves amount of asset from one holder to another on behalf of
// spender, consuming spender's allowance.
func (k *Keeper) TransferFrom(_ context.Context, spender, from, to, asset string, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	key := types.AllowanceKey(from, spender, asset)
	allowance := getInt(k.allowances(), key)
	if allowance.LT(amount) {
		return errors.Wrapf(types.ErrInsufficientAllowance,
			"%s may move %s%s from %s, needs %s", spender, allowance, asset, from, amount)
	}
	if err := k.transfer(from, to, asset, amount); err != nil {
		return err
	}
	setInt(k.allowances(), key, allowance.Sub(amount))
	return nil
}

// Mint credits newly issued amount of asset to holder.
func (k *Keeper) Mint(_ context.Context, to, asset string, amount sdkmath.Int) error {
	if err := types.ValidateAccount(to); err != nil {
		return err
	}
	if err := validateAsset(asset); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	supply, err := getInt(k.supplies(), types.SupplyKey(asset)).SafeAdd(amount)
	if err != nil {
		return errors.Wrapf(types.ErrInvalidAmount, "supply of %s overflows: %s", asset, err)
	}
	balance := getInt(k.balances(), types.BalanceKey(to, asset)).Add(amount)
	setInt(k.supplies(), types.SupplyKey(asset), supply)
	setInt(k.balances(), types.BalanceKey(to, asset), balance)
	return nil
}

// transfer must be called with k.mu held.
func (k *Keeper) transfer(from, to, asset string, amount sdkmath.Int) error {
	if err := types.ValidateAccount(from); err != nil {
		return err
	}
	if err := types.ValidateAccount(to); err != nil {
		return err
	}
	if err := validateAsset(asset); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.IsZero() || from == to {
		return nil
	}

	store := k.balances()
	fromKey, toKey := types.BalanceKey(from, asset), types.BalanceKey(to, asset)
	fromBalance := getInt(store, fromKey)
	if fromBalance.LT(amount) {
		return errors.Wrapf(types.ErrInsufficientBalance,
			"%s holds %s%s, needs %s", from, fromBalance, asset, amount)
	}
	setInt(store, fromKey, fromBalance.Sub(amount))
	setInt(store, toKey, getInt(store, toKey).Add(amount))
	return nil
}

// IterateBalances calls cb for every non-zero balance until it returns true.
func (k *Keeper) IterateBalances(cb func(b types.Balance) (stop bool)) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	it := k.balances().Iterator(nil, nil)
	defer it.Close()
	for ; it.Valid(); it.Next() {
		holder, asset, err := types.ParseBalanceKey(it.Key())
		if err != nil {
			return err
		}
		var amount sdkmath.Int
		if err := amount.Unmarshal(it.Value()); err != nil {
			return fmt.Errorf("IterateBalances: %w", err)
		}
		if cb(types.Balance{Holder: holder, Asset: asset, Amount: amount}) {
			break
		}
	}
	return nil
}

// IterateAllowances calls cb for every non-zero allowance until it returns true.
func (k *Keeper) IterateAllowances(cb func(a types.Allowance) (stop bool)) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	it := k.allowances().Iterator(nil, nil)
	defer it.Close()
	for ; it.Valid(); it.Next() {
		owner, spender, asset, err := types.ParseAllowanceKey(it.Key())
		if err != nil {
			return err
		}
		var amount sdkmath.Int
		if err := amount.Unmarshal(it.Value()); err != nil {
			return fmt.Errorf("IterateAllowances: %w", err)
		}
		if cb(types.Allowance{Owner: owner, Spender: spender, Asset: asset, Amount: amount}) {
			break
		}
	}
	return nil
}
