package types

import (
	"cosmossdk.io/errors"
)

// DEX module sentinel errors
var (
	// validation
	ErrInvalidAmount            = errors.Register(ModuleName, 1, "invalid amount")
	ErrIdenticalAssets          = errors.Register(ModuleName, 2, "identical assets")
	ErrInvalidAssetDenom        = errors.Register(ModuleName, 3, "invalid asset denomination")
	ErrInvalidPath              = errors.Register(ModuleName, 4, "invalid swap path")
	ErrInvalidAsset             = errors.Register(ModuleName, 5, "asset not in pool")
	ErrInvalidPairIndex         = errors.Register(ModuleName, 6, "pair index out of range")
	ErrInsufficientOutputAmount = errors.Register(ModuleName, 7, "input too small to produce any output")
	ErrInvalidAddress           = errors.Register(ModuleName, 8, "invalid address")
	ErrInvalidParams            = errors.Register(ModuleName, 9, "invalid params")
	ErrInvalidGenesis           = errors.Register(ModuleName, 10, "invalid genesis state")

	// state
	ErrPairExists                  = errors.Register(ModuleName, 20, "pair already exists")
	ErrNoPoolForHop                = errors.Register(ModuleName, 21, "no pool for hop")
	ErrPairNotFound                = errors.Register(ModuleName, 22, "pair not found")
	ErrInsufficientLiquidity       = errors.Register(ModuleName, 23, "insufficient liquidity in pool")
	ErrInsufficientLiquidityMinted = errors.Register(ModuleName, 24, "insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = errors.Register(ModuleName, 25, "insufficient liquidity burned")
	ErrInsufficientShares          = errors.Register(ModuleName, 26, "insufficient liquidity shares")
	ErrMaxPoolsReached             = errors.Register(ModuleName, 27, "maximum number of pools reached")
	ErrReentrancy                  = errors.Register(ModuleName, 28, "reentrant call")

	// envelope
	ErrSlippage = errors.Register(ModuleName, 40, "slippage tolerance exceeded")
	ErrExpired  = errors.Register(ModuleName, 41, "deadline expired")

	// arithmetic
	ErrOverflow = errors.Register(ModuleName, 50, "arithmetic overflow")
)

var (
	validationErrors = []error{
		ErrInvalidAmount, ErrIdenticalAssets, ErrInvalidAssetDenom, ErrInvalidPath, ErrInvalidAsset,
		ErrInvalidPairIndex, ErrInsufficientOutputAmount, ErrInvalidAddress, ErrInvalidParams,
		ErrInvalidGenesis,
	}
	stateErrors = []error{
		ErrPairExists, ErrNoPoolForHop, ErrPairNotFound, ErrInsufficientLiquidity,
		ErrInsufficientLiquidityMinted, ErrInsufficientLiquidityBurned, ErrInsufficientShares,
		ErrMaxPoolsReached, ErrReentrancy,
	}
)

// IsValidationError reports malformed inputs: bad amounts, assets, paths or indices.
func IsValidationError(err error) bool { return errors.IsOf(err, validationErrors...) }

// IsStateError reports failures caused by the current registry or pool state.
func IsStateError(err error) bool { return errors.IsOf(err, stateErrors...) }

// IsSlippageError reports a result outside the caller's tolerance.
func IsSlippageError(err error) bool { return errors.IsOf(err, ErrSlippage) }

// IsExpiredError reports an operation submitted after its deadline.
func IsExpiredError(err error) bool { return errors.IsOf(err, ErrExpired) }

// IsOverflowError reports a result that does not fit in 256 bits.
func IsOverflowError(err error) bool { return errors.IsOf(err, ErrOverflow) }
