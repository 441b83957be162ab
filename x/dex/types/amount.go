package types

import (
	"strings"

	"cosmossdk.io/math"
)

// AmountPrecision is the number of fractional decimal digits of one whole unit
// of any asset. A base unit is 10^-18 of a whole unit.
const AmountPrecision = math.LegacyPrecision

// ParseAmount converts a human decimal amount ("1.5") into base units.
// More than AmountPrecision fractional digits, negative values and values
// beyond 256 bits are rejected.
func ParseAmount(s string) (math.Int, error) {
	s = strings.TrimSpace(s)
	dec, err := math.LegacyNewDecFromStr(s)
	if err != nil {
		return math.Int{}, ErrInvalidAmount.Wrapf("%q: %s", s, err)
	}
	if dec.IsNegative() {
		return math.Int{}, ErrInvalidAmount.Wrapf("%q is negative", s)
	}
	raw := dec.BigInt()
	if raw.BitLen() > math.MaxBitLen {
		return math.Int{}, ErrOverflow.Wrapf("%q does not fit in %d bits", s, math.MaxBitLen)
	}
	return math.NewIntFromBigInt(raw), nil
}

// FormatAmount renders base units as a human decimal amount, trimming
// trailing fractional zeros.
func FormatAmount(amount math.Int) string {
	if amount.IsNil() {
		return "0"
	}
	s := math.LegacyNewDecFromBigIntWithPrec(amount.BigInt(), AmountPrecision).String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// ParseBaseUnits parses an integer amount already expressed in base units.
func ParseBaseUnits(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(strings.TrimSpace(s))
	if !ok {
		return math.Int{}, ErrInvalidAmount.Wrapf("%q is not an integer", s)
	}
	if amount.IsNegative() {
		return math.Int{}, ErrInvalidAmount.Wrapf("%q is negative", s)
	}
	return amount, nil
}
