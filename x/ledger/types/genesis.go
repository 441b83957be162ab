package types

import (
	"strings"

	sdkmath "cosmossdk.io/math"
)

// Balance is one holder's amount of one asset.
type Balance struct {
	Holder string      `json:"holder"`
	Asset  string      `json:"asset"`
	Amount sdkmath.Int `json:"amount"`
}

// Allowance is the amount Spender may move out of Owner's balance of Asset.
type Allowance struct {
	Owner   string      `json:"owner"`
	Spender string      `json:"spender"`
	Asset   string      `json:"asset"`
	Amount  sdkmath.Int `json:"amount"`
}

// GenesisState holds every balance and allowance of the ledger.
type GenesisState struct {
	Balances   []Balance   `json:"balances"`
	Allowances []Allowance `json:"allowances"`
}

// DefaultGenesis returns an empty ledger.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Balances:   []Balance{},
		Allowances: []Allowance{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	type balanceID struct{ holder, asset string }
	seen := make(map[balanceID]struct{}, len(gs.Balances))
	for i, b := range gs.Balances {
		if err := ValidateAccount(b.Holder); err != nil {
			return ErrInvalidGenesis.Wrapf("balance %d: %s", i, err)
		}
		if strings.TrimSpace(b.Asset) == "" {
			return ErrInvalidGenesis.Wrapf("balance %d: empty asset", i)
		}
		if b.Amount.IsNil() || b.Amount.IsNegative() {
			return ErrInvalidGenesis.Wrapf("balance %d: negative amount", i)
		}
		id := balanceID{b.Holder, b.Asset}
		if _, dup := seen[id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate balance %s/%s", b.Holder, b.Asset)
		}
		seen[id] = struct{}{}
	}
	for i, a := range gs.Allowances {
		if err := ValidateAccount(a.Owner); err != nil {
			return ErrInvalidGenesis.Wrapf("allowance %d: %s", i, err)
		}
		if err := ValidateAccount(a.Spender); err != nil {
			return ErrInvalidGenesis.Wrapf("allowance %d: %s", i, err)
		}
		if a.Amount.IsNil() || a.Amount.IsNegative() {
			return ErrInvalidGenesis.Wrapf("allowance %d: negative amount", i)
		}
	}
	return nil
}

// ValidateAccount checks a holder identifier.
func ValidateAccount(account string) error {
	if strings.TrimSpace(account) == "" {
		return ErrInvalidAddress.Wrap("account cannot be empty")
	}
	if len(account) > 1<<16-1 {
		return ErrInvalidAddress.Wrapf("account is %d bytes long", len(account))
	}
	return nil
}
