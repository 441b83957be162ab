package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paw-chain/pawswap/x/dex/types"
	ledgertypes "github.com/paw-chain/pawswap/x/ledger/types"
)

// handleGetBalance returns a holder's ledger balance of ?asset
func (s *Server) handleGetBalance(c *gin.Context) {
	holder, asset := c.Param("holder"), c.Query("asset")
	if err := ledgertypes.ValidateAccount(holder); err != nil {
		s.writeError(c, err)
		return
	}
	if err := types.ValidateAssetDenom(asset); err != nil {
		s.writeError(c, err)
		return
	}
	amount := s.app.LedgerKeeper.BalanceOf(c.Request.Context(), holder, asset)
	c.JSON(http.StatusOK, BalanceResponse{
		Holder:  holder,
		Asset:   asset,
		Amount:  amount.String(),
		Display: types.FormatAmount(amount),
	})
}
