package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/app"
	dexkeeper "github.com/paw-chain/pawswap/x/dex/keeper"
	dextypes "github.com/paw-chain/pawswap/x/dex/types"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// setupTestServer creates a server over two seeded pools: upaw/uusdc at
// 1M/2M and uusdc/uatom at 1M/1M.
func setupTestServer(t *testing.T, mutate func(*app.APIConfig)) *Server {
	t.Helper()
	cfg := app.DefaultConfig()
	cfg.API.RateLimit = 1000
	cfg.API.Burst = 1000
	cfg.API.CORSOrigins = []string{"https://app.example"}
	if mutate != nil {
		mutate(&cfg.API)
	}

	a, err := app.New(cfg, log.NewNopLogger(), app.WithDexOptions(dexkeeper.WithClock(func() time.Time { return testNow })))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx := context.Background()
	for _, asset := range []string{"upaw", "uusdc", "uatom"} {
		require.NoError(t, a.LedgerKeeper.Mint(ctx, "alice", asset, math.NewInt(10_000_000)))
		require.NoError(t, a.LedgerKeeper.Approve(ctx, "alice", dextypes.ModuleAccount, asset, math.NewInt(10_000_000)))
	}
	deposit := func(x, y string, amountX, amountY int64) {
		_, err := a.Router.AddLiquidity(ctx, "alice", x, y, math.NewInt(amountX), math.NewInt(amountY),
			math.ZeroInt(), math.ZeroInt(), "alice", testNow.Add(time.Hour))
		require.NoError(t, err)
	}
	deposit("upaw", "uusdc", 1_000_000, 2_000_000)
	deposit("uusdc", "uatom", 1_000_000, 1_000_000)

	server, err := NewServer(a, cfg.API, log.NewNopLogger())
	require.NoError(t, err)
	return server
}

func doGet(t *testing.T, s *Server, target string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}

func TestNewServer(t *testing.T) {
	_, err := NewServer(nil, app.DefaultConfig().API, log.NewNopLogger())
	require.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	s := setupTestServer(t, nil)
	var resp map[string]interface{}
	w := doGet(t, s, "/health", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", resp["status"])
	require.EqualValues(t, 2, resp["pools"])
}

func TestGetPairs(t *testing.T) {
	s := setupTestServer(t, nil)

	var page PoolsResponse
	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pairs", &page).Code)
	require.Equal(t, 2, page.Total)
	require.Len(t, page.Pools, 2)
	require.Equal(t, PoolResponse{
		ID: 1, AssetA: "upaw", AssetB: "uusdc",
		ReserveA: "1000000", ReserveB: "2000000", TotalShares: "1414213",
		LastUpdated: testNow,
	}, page.Pools[0])

	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pairs?offset=1&limit=1", &page).Code)
	require.Len(t, page.Pools, 1)
	require.Equal(t, uint64(2), page.Pools[0].ID)

	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pairs?offset=9", &page).Code)
	require.Empty(t, page.Pools)

	require.Equal(t, http.StatusBadRequest, doGet(t, s, "/api/v1/pairs?limit=0", nil).Code)
	require.Equal(t, http.StatusBadRequest, doGet(t, s, "/api/v1/pairs?offset=-1", nil).Code)
}

func TestGetPair(t *testing.T) {
	s := setupTestServer(t, nil)

	var pool PoolResponse
	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pairs/1", &pool).Code)
	require.Equal(t, "uatom", pool.AssetA)

	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pair?asset_a=uusdc&asset_b=upaw", &pool).Code)
	require.Equal(t, uint64(1), pool.ID)

	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pools/2", &pool).Code)
	require.Equal(t, "uusdc", pool.AssetB)

	tests := []struct {
		target string
		code   int
	}{
		{"/api/v1/pairs/2", http.StatusBadRequest},
		{"/api/v1/pairs/x", http.StatusBadRequest},
		{"/api/v1/pair?asset_a=upaw&asset_b=uatom", http.StatusNotFound},
		{"/api/v1/pair?asset_a=upaw&asset_b=upaw", http.StatusBadRequest},
		{"/api/v1/pools/9", http.StatusNotFound},
		{"/api/v1/pools/abc", http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			w := doGet(t, s, tc.target, nil)
			require.Equal(t, tc.code, w.Code, w.Body.String())
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Details)
		})
	}
}

func TestPoolReadings(t *testing.T) {
	s := setupTestServer(t, nil)

	var price SpotPriceResponse
	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pools/1/price?asset=upaw", &price).Code)
	require.Equal(t, "2.000000000000000000", price.Price)
	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pools/1/price", &price).Code)
	require.Equal(t, "upaw", price.Asset)
	require.Equal(t, http.StatusBadRequest, doGet(t, s, "/api/v1/pools/1/price?asset=uatom", nil).Code)

	var shares SharesResponse
	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pools/1/shares/alice", &shares).Code)
	require.Equal(t, "1413213", shares.Shares)
	require.Equal(t, "1414213", shares.TotalShares)

	var obs ObservationResponse
	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/pools/1/observation", &obs).Code)
	require.Equal(t, uint64(1), obs.PoolID)
	require.True(t, obs.Timestamp.Equal(testNow))

	var params dextypes.Params
	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/params", &params).Code)
	require.Equal(t, dextypes.DefaultSwapFee, params.SwapFee)
}

func TestQuotes(t *testing.T) {
	s := setupTestServer(t, nil)

	var quote QuoteResponse
	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/quote/out?amount=10000&path=upaw,uusdc", &quote).Code)
	require.Equal(t, []string{"10000", "19743"}, quote.Amounts)
	require.Equal(t, []string{"upaw", "uusdc"}, quote.Path)

	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/quote/out?units=display&amount=0.00000000000001&path=upaw,uusdc", &quote).Code)
	require.Equal(t, "10000", quote.Amounts[0])
	require.Equal(t, "0.00000000000001", quote.Display[0])

	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/quote/in?amount=5000&path=upaw,uusdc,uatom", &quote).Code)
	require.Len(t, quote.Amounts, 3)
	require.Equal(t, "5000", quote.Amounts[2])

	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/quote/deposit?amount=1000&asset_a=upaw&asset_b=uusdc", &quote).Code)
	require.Equal(t, []string{"1000", "2000"}, quote.Amounts)

	tests := []struct {
		target string
		code   int
	}{
		{"/api/v1/quote/out?path=upaw,uusdc", http.StatusBadRequest},
		{"/api/v1/quote/out?amount=-5&path=upaw,uusdc", http.StatusBadRequest},
		{"/api/v1/quote/out?amount=10&path=upaw", http.StatusBadRequest},
		{"/api/v1/quote/out?amount=10&path=upaw,uatom", http.StatusNotFound},
		{"/api/v1/quote/in?amount=2000000&path=upaw,uusdc", http.StatusUnprocessableEntity},
		{"/api/v1/quote/deposit?amount=1&asset_a=upaw&asset_b=uatom", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			require.Equal(t, tc.code, doGet(t, s, tc.target, nil).Code)
		})
	}
}

func TestGetBalance(t *testing.T) {
	s := setupTestServer(t, nil)

	var bal BalanceResponse
	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/balances/alice?asset=upaw", &bal).Code)
	require.Equal(t, "9000000", bal.Amount)
	require.Equal(t, "0.000000000009", bal.Display)

	require.Equal(t, http.StatusOK, doGet(t, s, "/api/v1/balances/bob?asset=upaw", &bal).Code)
	require.Equal(t, "0", bal.Amount)

	require.Equal(t, http.StatusBadRequest, doGet(t, s, "/api/v1/balances/alice", nil).Code)
}

func TestMiddleware(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doGet(t, s, "/health", nil)
	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	require.NoError(t, err)
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, id)
	req.Header.Set("Origin", "https://app.example")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, id, w.Header().Get(requestIDHeader))
	require.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := setupTestServer(t, func(cfg *app.APIConfig) {
		cfg.RateLimit = 0.001
		cfg.Burst = 2
	})

	require.Equal(t, http.StatusOK, doGet(t, s, "/health", nil).Code)
	require.Equal(t, http.StatusOK, doGet(t, s, "/health", nil).Code)
	w := doGet(t, s, "/health", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "RATE_LIMIT")

	// limits are per client
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	now := testNow
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("192.0.2.1"))
	require.False(t, l.Allow("192.0.2.1"))
	now = now.Add(limiterIdleTimeout / 2)
	require.True(t, l.Allow("192.0.2.2"))
	require.Equal(t, 2, l.Len())

	// the first client has been idle past the timeout, the second has not
	now = now.Add(limiterIdleTimeout/2 + time.Second)
	l.cleanup()
	require.Equal(t, 1, l.Len())

	// an evicted client starts with a full bucket
	require.True(t, l.Allow("192.0.2.1"))
	require.Equal(t, 2, l.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	<-done
}
