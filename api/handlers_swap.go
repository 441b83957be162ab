package api

import (
	"net/http"

	"cosmossdk.io/math"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/pawswap/x/dex/types"
)

func newQuoteResponse(path types.SwapPath, amounts []math.Int) QuoteResponse {
	resp := QuoteResponse{Path: path, Amounts: make([]string, len(amounts)), Display: make([]string, len(amounts))}
	for i, amount := range amounts {
		resp.Amounts[i] = amount.String()
		resp.Display[i] = types.FormatAmount(amount)
	}
	return resp
}

// handleQuoteOut prices an exact input along ?path
func (s *Server) handleQuoteOut(c *gin.Context) {
	amountIn, err := parseAmountParam(c, "amount")
	if err != nil {
		s.writeError(c, err)
		return
	}
	path := parsePathParam(c)
	amounts, err := s.app.Router.GetAmountsOut(c.Request.Context(), amountIn, path)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(path, amounts))
}

// handleQuoteIn prices an exact output along ?path
func (s *Server) handleQuoteIn(c *gin.Context) {
	amountOut, err := parseAmountParam(c, "amount")
	if err != nil {
		s.writeError(c, err)
		return
	}
	path := parsePathParam(c)
	amounts, err := s.app.Router.GetAmountsIn(c.Request.Context(), amountOut, path)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(path, amounts))
}

// handleQuoteDeposit returns the amount of asset_b matching a deposit of
// amount of asset_a at the current pool ratio
func (s *Server) handleQuoteDeposit(c *gin.Context) {
	amountA, err := parseAmountParam(c, "amount")
	if err != nil {
		s.writeError(c, err)
		return
	}
	assetA, assetB := c.Query("asset_a"), c.Query("asset_b")
	amountB, err := s.app.Router.Quote(c.Request.Context(), amountA, assetA, assetB)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(types.SwapPath{assetA, assetB}, []math.Int{amountA, amountB}))
}
