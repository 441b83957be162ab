package api

import (
	"time"

	"github.com/paw-chain/pawswap/x/dex/keeper"
	"github.com/paw-chain/pawswap/x/dex/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// PoolResponse describes one pool. Amounts are base units.
type PoolResponse struct {
	ID          uint64    `json:"id"`
	AssetA      string    `json:"asset_a"`
	AssetB      string    `json:"asset_b"`
	ReserveA    string    `json:"reserve_a"`
	ReserveB    string    `json:"reserve_b"`
	TotalShares string    `json:"total_shares"`
	LastUpdated time.Time `json:"last_updated"`
}

func newPoolResponse(state types.PoolState) PoolResponse {
	return PoolResponse{
		ID:          state.Id,
		AssetA:      state.AssetA,
		AssetB:      state.AssetB,
		ReserveA:    state.ReserveA.String(),
		ReserveB:    state.ReserveB.String(),
		TotalShares: state.TotalShares.String(),
		LastUpdated: state.LastUpdated,
	}
}

// PoolsResponse is a page of pools in creation order.
type PoolsResponse struct {
	Pools  []PoolResponse `json:"pools"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
}

// QuoteResponse lists the amount at every step of a path.
type QuoteResponse struct {
	Path    []string `json:"path"`
	Amounts []string `json:"amounts"`
	// Display renders the amounts as whole units.
	Display []string `json:"display"`
}

// SpotPriceResponse is the marginal price of one unit of Asset.
type SpotPriceResponse struct {
	PoolID uint64 `json:"pool_id"`
	Asset  string `json:"asset"`
	Price  string `json:"price"`
}

// ObservationResponse is a reading of the pool price accumulators.
type ObservationResponse struct {
	PoolID uint64 `json:"pool_id"`
	keeper.Observation
}

// BalanceResponse is a holder's balance of one asset.
type BalanceResponse struct {
	Holder  string `json:"holder"`
	Asset   string `json:"asset"`
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

// SharesResponse is a holder's share of one pool.
type SharesResponse struct {
	PoolID      uint64 `json:"pool_id"`
	Holder      string `json:"holder"`
	Shares      string `json:"shares"`
	TotalShares string `json:"total_shares"`
}
