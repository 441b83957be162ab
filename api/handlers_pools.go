package api

import (
	"net/http"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/pawswap/x/dex/types"
)

// handleGetParams returns the engine parameters
func (s *Server) handleGetParams(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.DexKeeper.Params())
}

// handleGetPairs returns a page of pools in creation order
func (s *Server) handleGetPairs(c *gin.Context) {
	offset, limit, err := parsePage(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	all := s.app.DexKeeper.GetAllPools()
	resp := PoolsResponse{Pools: []PoolResponse{}, Total: len(all), Offset: offset}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		resp.Pools = append(resp.Pools, newPoolResponse(all[i].State(c.Request.Context())))
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetPairByIndex returns the pool created at the given zero-based index
func (s *Server) handleGetPairByIndex(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.writeError(c, errorsmod.Wrapf(errBadRequest, "index %q", c.Param("index")))
		return
	}
	pool, err := s.app.DexKeeper.AllPairs(index)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPoolResponse(pool.State(c.Request.Context())))
}

// handleGetPair looks a pool up by its two assets, in either order
func (s *Server) handleGetPair(c *gin.Context) {
	assetA, assetB := c.Query("asset_a"), c.Query("asset_b")
	if _, err := types.NewPairKey(assetA, assetB); err != nil {
		s.writeError(c, err)
		return
	}
	pool, ok := s.app.DexKeeper.GetPair(assetA, assetB)
	if !ok {
		s.writeError(c, types.ErrPairNotFound.Wrapf("%s/%s", assetA, assetB))
		return
	}
	c.JSON(http.StatusOK, newPoolResponse(pool.State(c.Request.Context())))
}

// handleGetPool returns a pool by id
func (s *Server) handleGetPool(c *gin.Context) {
	pool, ok := s.lookupPool(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newPoolResponse(pool.State(c.Request.Context())))
}

// handleGetSpotPrice returns the marginal price of ?asset in the counter asset
func (s *Server) handleGetSpotPrice(c *gin.Context) {
	pool, ok := s.lookupPool(c)
	if !ok {
		return
	}
	asset := c.Query("asset")
	if asset == "" {
		asset, _ = pool.Assets()
	}
	price, err := pool.SpotPrice(c.Request.Context(), asset)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SpotPriceResponse{PoolID: pool.ID(), Asset: asset, Price: price.String()})
}

// handleGetObservation returns the price accumulators as of now
func (s *Server) handleGetObservation(c *gin.Context) {
	pool, ok := s.lookupPool(c)
	if !ok {
		return
	}
	obs := pool.Observe(c.Request.Context(), s.app.DexKeeper.Now())
	c.JSON(http.StatusOK, ObservationResponse{PoolID: pool.ID(), Observation: obs})
}

// handleGetShares returns a holder's liquidity shares
func (s *Server) handleGetShares(c *gin.Context) {
	pool, ok := s.lookupPool(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, SharesResponse{
		PoolID:      pool.ID(),
		Holder:      c.Param("holder"),
		Shares:      pool.SharesOf(ctx, c.Param("holder")).String(),
		TotalShares: pool.TotalShares(ctx).String(),
	})
}
