package api

import (
	"errors"
	"net/http"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/pawswap/x/dex/keeper"
	"github.com/paw-chain/pawswap/x/dex/types"
	ledgertypes "github.com/paw-chain/pawswap/x/ledger/types"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

var errBadRequest = errors.New("bad request")

// parseAmountParam reads an amount from the query string. Base units are the
// default; units=display accepts whole-unit decimals.
func parseAmountParam(c *gin.Context, name string) (math.Int, error) {
	raw := c.Query(name)
	if raw == "" {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("%s is required", name)
	}
	if c.Query("units") == "display" {
		return types.ParseAmount(raw)
	}
	return types.ParseBaseUnits(raw)
}

func parsePathParam(c *gin.Context) types.SwapPath {
	return types.ParseSwapPath(c.Query("path"))
}

func parsePoolID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("pool_id"), 10, 64)
	if err != nil {
		return 0, errorsmod.Wrapf(errBadRequest, "pool id %q", c.Param("pool_id"))
	}
	return id, nil
}

func parsePage(c *gin.Context) (offset, limit int, err error) {
	offset, limit = 0, defaultPageLimit
	if v := c.Query("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil || offset < 0 {
			return 0, 0, errorsmod.Wrapf(errBadRequest, "offset %q", v)
		}
	}
	if v := c.Query("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit <= 0 || limit > maxPageLimit {
			return 0, 0, errorsmod.Wrapf(errBadRequest, "limit %q must be in 1..%d", v, maxPageLimit)
		}
	}
	return offset, limit, nil
}

func (s *Server) lookupPool(c *gin.Context) (*keeper.LiquidityPool, bool) {
	id, err := parsePoolID(c)
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	pool, ok := s.app.DexKeeper.GetPool(id)
	if !ok {
		s.writeError(c, types.ErrPairNotFound.Wrapf("pool %d", id))
		return nil, false
	}
	return pool, true
}

// statusForError maps engine error categories to HTTP status codes.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, types.ErrPairNotFound), errors.Is(err, types.ErrNoPoolForHop):
		return http.StatusNotFound, "NOT_FOUND"
	case types.IsValidationError(err),
		errorsmod.IsOf(err, ledgertypes.ErrInvalidAddress, ledgertypes.ErrInvalidAsset, ledgertypes.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case types.IsOverflowError(err):
		return http.StatusUnprocessableEntity, "OVERFLOW"
	case types.IsStateError(err):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_LIQUIDITY"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, code := statusForError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: err.Error(),
	})
}
