package types

import (
	"cosmossdk.io/errors"
)

// Ledger sentinel errors
var (
	ErrInsufficientBalance   = errors.Register(ModuleName, 1, "insufficient balance")
	ErrInsufficientAllowance = errors.Register(ModuleName, 2, "insufficient allowance")
	ErrInvalidAmount         = errors.Register(ModuleName, 3, "invalid amount")
	ErrInvalidAddress        = errors.Register(ModuleName, 4, "invalid address")
	ErrInvalidAsset          = errors.Register(ModuleName, 5, "invalid asset")
	ErrMalformedKey          = errors.Register(ModuleName, 6, "malformed store key")
	ErrInvalidGenesis        = errors.Register(ModuleName, 7, "invalid genesis state")
	ErrStateExists           = errors.Register(ModuleName, 8, "ledger store already holds state")
)
