package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// TokenLedger defines the expected fungible-asset ledger. The engine never
// tracks balances itself; reserves are backed by the ModuleAccount balance.
type TokenLedger interface {
	BalanceOf(ctx context.Context, holder, asset string) sdkmath.Int
	Transfer(ctx context.Context, from, to, asset string, amount sdkmath.Int) error
	Approve(ctx context.Context, owner, spender, asset string, amount sdkmath.Int) error
	Allowance(ctx context.Context, owner, spender, asset string) sdkmath.Int
	TransferFrom(ctx context.Context, spender, from, to, asset string, amount sdkmath.Int) error
}
