package types

import (
	"strings"

	"cosmossdk.io/math"
)

// SwapPath is the caller-supplied route of a trade: path[i] is swapped for
// path[i+1] in the pool holding both.
type SwapPath []string

// ParseSwapPath splits a comma separated list of assets.
func ParseSwapPath(s string) SwapPath {
	parts := strings.Split(s, ",")
	path := make(SwapPath, 0, len(parts))
	for _, p := range parts {
		path = append(path, strings.TrimSpace(p))
	}
	return path
}

// Validate checks the path shape. Pool existence is checked by the router.
func (p SwapPath) Validate(maxHops uint32) error {
	if len(p) < 2 {
		return ErrInvalidPath.Wrapf("path needs at least 2 assets, got %d", len(p))
	}
	if hops := len(p) - 1; uint32(hops) > maxHops {
		return ErrInvalidPath.Wrapf("%d hops exceeds maximum of %d", hops, maxHops)
	}
	for i, asset := range p {
		if err := ValidateAssetDenom(asset); err != nil {
			return ErrInvalidPath.Wrapf("asset %d: %s", i, err)
		}
		if i > 0 && p[i-1] == asset {
			return ErrInvalidPath.Wrapf("hop %d swaps %s for itself", i-1, asset)
		}
	}
	return nil
}

// Hops returns the number of pools the path crosses.
func (p SwapPath) Hops() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// String renders the path as "a -> b -> c".
func (p SwapPath) String() string {
	return strings.Join(p, " -> ")
}

// SwapResult reports an executed trade. Amounts[i] is the amount of Path[i]
// entering hop i; the last entry is the amount delivered to the recipient.
type SwapResult struct {
	Path    SwapPath   `json:"path"`
	Amounts []math.Int `json:"amounts"`
}

// AmountIn is the amount taken from the trader.
func (r SwapResult) AmountIn() math.Int { return r.Amounts[0] }

// AmountOut is the amount delivered to the recipient.
func (r SwapResult) AmountOut() math.Int { return r.Amounts[len(r.Amounts)-1] }
