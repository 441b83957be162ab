package types

import (
	"strings"

	"cosmossdk.io/errors"
)

const (
	// ModuleName defines the module name
	ModuleName = "dex"

	// ModuleAccount is the ledger account that custodies every pool's reserves
	// and is approved as spender by callers of the router.
	ModuleAccount = ModuleName

	// LockedSharesHolder receives the minimum liquidity burned on the first
	// deposit of every pool. Nothing can ever withdraw from it.
	LockedSharesHolder = "dex/locked"

	// pairKeySeparator joins the two assets of a pair key.
	pairKeySeparator = "/"
)

// PairKey identifies a pool by its two assets in canonical (lexicographic) order.
type PairKey struct {
	AssetA string `json:"asset_a"`
	AssetB string `json:"asset_b"`
}

// NewPairKey canonicalizes the unordered pair {x, y}. Both orders of the same
// two assets yield an identical key.
func NewPairKey(x, y string) (PairKey, error) {
	if err := ValidateAssetDenom(x); err != nil {
		return PairKey{}, err
	}
	if err := ValidateAssetDenom(y); err != nil {
		return PairKey{}, err
	}
	if x == y {
		return PairKey{}, ErrIdenticalAssets.Wrapf("%s", x)
	}
	if x > y {
		x, y = y, x
	}
	return PairKey{AssetA: x, AssetB: y}, nil
}

// MustNewPairKey is NewPairKey for static inputs in tests and genesis builders.
func MustNewPairKey(x, y string) PairKey {
	key, err := NewPairKey(x, y)
	if err != nil {
		panic(err)
	}
	return key
}

// Contains reports whether asset is one of the two assets of the pair.
func (k PairKey) Contains(asset string) bool {
	return asset == k.AssetA || asset == k.AssetB
}

// Other returns the counter asset of the given asset.
func (k PairKey) Other(asset string) (string, error) {
	switch asset {
	case k.AssetA:
		return k.AssetB, nil
	case k.AssetB:
		return k.AssetA, nil
	default:
		return "", ErrInvalidAsset.Wrapf("%s is not part of pair %s", asset, k)
	}
}

// String renders the key as "assetA/assetB".
func (k PairKey) String() string {
	return k.AssetA + pairKeySeparator + k.AssetB
}

// ValidateAssetDenom checks an asset identifier. The separator is reserved so
// that the string form of a pair key stays unambiguous.
func ValidateAssetDenom(denom string) error {
	if strings.TrimSpace(denom) == "" {
		return errors.Wrap(ErrInvalidAssetDenom, "asset cannot be empty")
	}
	if strings.Contains(denom, pairKeySeparator) {
		return ErrInvalidAssetDenom.Wrapf("asset %q contains %q", denom, pairKeySeparator)
	}
	return nil
}
