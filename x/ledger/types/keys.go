package types

import (
	"encoding/binary"
)

const (
	// ModuleName defines the module name
	ModuleName = "ledger"
)

// Store key prefixes
var (
	BalanceKeyPrefix   = []byte{0x01}
	AllowanceKeyPrefix = []byte{0x02}
	SupplyKeyPrefix    = []byte{0x03}
)

// lengthPrefixed encodes s so that concatenated keys cannot collide.
func lengthPrefixed(s string) []byte {
	bz := make([]byte, 2, 2+len(s))
	binary.BigEndian.PutUint16(bz, uint16(len(s)))
	return append(bz, s...)
}

// BalanceKey returns the key of holder's balance of asset, relative to BalanceKeyPrefix.
func BalanceKey(holder, asset string) []byte {
	return append(lengthPrefixed(holder), asset...)
}

// ParseBalanceKey is the inverse of BalanceKey.
func ParseBalanceKey(key []byte) (holder, asset string, err error) {
	holder, rest, err := splitLengthPrefixed(key)
	if err != nil {
		return "", "", err
	}
	return holder, string(rest), nil
}

// AllowanceKey returns the key of the amount spender may move out of owner's
// balance of asset, relative to AllowanceKeyPrefix.
func AllowanceKey(owner, spender, asset string) []byte {
	key := lengthPrefixed(owner)
	key = append(key, lengthPrefixed(spender)...)
	return append(key, asset...)
}

// ParseAllowanceKey is the inverse of AllowanceKey.
func ParseAllowanceKey(key []byte) (owner, spender, asset string, err error) {
	owner, rest, err := splitLengthPrefixed(key)
	if err != nil {
		return "", "", "", err
	}
	spender, rest, err = splitLengthPrefixed(rest)
	if err != nil {
		return "", "", "", err
	}
	return owner, spender, string(rest), nil
}

// SupplyKey returns the key of the total supply of asset, relative to SupplyKeyPrefix.
func SupplyKey(asset string) []byte {
	return []byte(asset)
}

func splitLengthPrefixed(bz []byte) (string, []byte, error) {
	if len(bz) < 2 {
		return "", nil, ErrMalformedKey.Wrapf("key too short: %x", bz)
	}
	n := int(binary.BigEndian.Uint16(bz))
	if len(bz) < 2+n {
		return "", nil, ErrMalformedKey.Wrapf("key %x declares %d bytes", bz, n)
	}
	return string(bz[2 : 2+n]), bz[2+n:], nil
}
