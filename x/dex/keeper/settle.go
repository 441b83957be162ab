package keeper

import (
	"context"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// transfer is one completed ledger movement between a caller and custody.
type transfer struct {
	account string
	asset   string
	amount  math.Int
	// inbound is true for funds pulled from account into custody.
	inbound bool
}

// settlement performs the ledger side of an operation after its pool effects
// and records every completed movement so the whole batch can be unwound.
type settlement struct {
	k    *Keeper
	done []transfer
}

func (k *Keeper) newSettlement() *settlement {
	return &settlement{k: k}
}

// pull moves amount of asset from account into custody using the allowance
// account granted to the module account.
func (s *settlement) pull(ctx context.Context, account, asset string, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := s.k.ledger.TransferFrom(ctx, types.ModuleAccount, account, types.ModuleAccount, asset, amount); err != nil {
		return errors.Wrapf(err, "pull %s%s from %s", amount, asset, account)
	}
	s.done = append(s.done, transfer{account: account, asset: asset, amount: amount, inbound: true})
	return nil
}

// pay moves amount of asset out of custody to account.
func (s *settlement) pay(ctx context.Context, account, asset string, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := s.k.ledger.Transfer(ctx, types.ModuleAccount, account, asset, amount); err != nil {
		return errors.Wrapf(err, "pay %s%s to %s", amount, asset, account)
	}
	s.done = append(s.done, transfer{account: account, asset: asset, amount: amount})
	return nil
}

// revert unwinds completed movements in reverse order. A compensation that
// fails leaves custody out of balance with the reserves; it is logged and
// counted, and the invariants report it.
func (s *settlement) revert(ctx context.Context, operation string) {
	s.k.metrics.Rollbacks.WithLabelValues(operation).Inc()
	for i := len(s.done) - 1; i >= 0; i-- {
		t := s.done[i]
		from, to := t.account, types.ModuleAccount
		if t.inbound {
			from, to = types.ModuleAccount, t.account
		}
		if err := s.k.ledger.Transfer(ctx, from, to, t.asset, t.amount); err != nil {
			s.k.logger.Error("failed to compensate transfer",
				"operation", operation, "from", from, "to", to,
				"asset", t.asset, "amount", t.amount.String(), "error", err)
		}
	}
	s.done = nil
}
