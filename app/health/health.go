// Package health serves liveness and readiness checks for the exchange.
//
// The endpoints are:
// - /health - Basic liveness check
// - /health/ready - Readiness check, runs the pool invariants
// - /health/detailed - Readiness plus per-pool bookkeeping
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"

	dexkeeper "github.com/paw-chain/pawswap/x/dex/keeper"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Config holds configuration for the health checker
type Config struct {
	// RegistryDegradedRatio marks the registry degraded once this share of
	// MaxPools is in use.
	RegistryDegradedRatio float64

	// CacheDuration is how long to cache readiness results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		RegistryDegradedRatio: 0.9,
		CacheDuration:         5 * time.Second,
	}
}

// Checker runs health checks against a pool registry.
type Checker struct {
	logger log.Logger
	keeper *dexkeeper.Keeper
	cfg    Config
	now    func() time.Time

	mu           sync.RWMutex
	lastCheck    time.Time
	cachedHealth *HealthCheck
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, keeper *dexkeeper.Keeper) (*Checker, error) {
	if keeper == nil {
		return nil, fmt.Errorf("dex keeper is required")
	}
	if cfg.RegistryDegradedRatio <= 0 || cfg.RegistryDegradedRatio > 1 {
		return nil, fmt.Errorf("registry degraded ratio must be in (0, 1], got %v", cfg.RegistryDegradedRatio)
	}
	return &Checker{
		logger: logger.With("module", "health"),
		keeper: keeper,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

// Check performs a health check. Detailed checks bypass the cache and add
// per-pool figures.
func (c *Checker) Check(ctx context.Context, detailed bool) *HealthCheck {
	if !detailed {
		if cached := c.cached(); cached != nil {
			return cached
		}
	}

	health := &HealthCheck{
		Timestamp: c.now(),
		Components: map[string]ComponentHealth{
			"invariants": c.checkInvariants(ctx),
			"registry":   c.checkRegistry(),
		},
	}
	if detailed {
		health.Components["pools"] = c.checkPools(ctx)
	}
	health.Status = calculateOverallStatus(health.Components)

	if !detailed {
		c.mu.Lock()
		c.lastCheck = health.Timestamp
		c.cachedHealth = health
		c.mu.Unlock()
	}
	return health
}

func (c *Checker) cached() *HealthCheck {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cachedHealth == nil || c.now().Sub(c.lastCheck) >= c.cfg.CacheDuration {
		return nil
	}
	return c.cachedHealth
}

func (c *Checker) checkInvariants(ctx context.Context) ComponentHealth {
	start := c.now()
	msg, broken := dexkeeper.AllInvariants(c.keeper)(ctx)
	if broken {
		c.logger.Error("invariant broken", "details", msg)
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   msg,
			Timestamp: c.now(),
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "all invariants hold",
		Timestamp: c.now(),
		Metrics:   map[string]interface{}{"check_time_ms": c.now().Sub(start).Milliseconds()},
	}
}

func (c *Checker) checkRegistry() ComponentHealth {
	count := c.keeper.AllPairsLength()
	limit := c.keeper.Params().MaxPools
	metrics := map[string]interface{}{"pools": count, "max_pools": limit}

	if float64(count) >= float64(limit)*c.cfg.RegistryDegradedRatio {
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   fmt.Sprintf("registry holds %d of %d pools", count, limit),
			Timestamp: c.now(),
			Metrics:   metrics,
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "registry has capacity",
		Timestamp: c.now(),
		Metrics:   metrics,
	}
}

func (c *Checker) checkPools(ctx context.Context) ComponentHealth {
	pools := make(map[string]interface{})
	empty := 0
	c.keeper.IteratePools(func(pool *dexkeeper.LiquidityPool) bool {
		state := pool.State(ctx)
		if state.TotalShares.IsZero() {
			empty++
		}
		pools[pool.Key().String()] = map[string]string{
			"reserve_a":    state.ReserveA.String(),
			"reserve_b":    state.ReserveB.String(),
			"total_shares": state.TotalShares.String(),
		}
		return false
	})
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   fmt.Sprintf("%d pools, %d without liquidity", len(pools), empty),
		Timestamp: c.now(),
		Metrics:   map[string]interface{}{"pools": pools},
	}
}

// calculateOverallStatus determines the overall health status based on component statuses
func calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasDegraded := false
	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// RegisterRoutes registers health check endpoints
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods(http.MethodGet)
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods(http.MethodGet)
}

func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": c.now().Format(time.RFC3339),
	})
}

func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), false)
	c.writeJSON(w, statusCode(health), health)
}

func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), true)
	c.writeJSON(w, statusCode(health), health)
}

// statusCode keeps degraded nodes ready.
func statusCode(health *HealthCheck) int {
	if health.Status == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func (c *Checker) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Error("failed to write health response", "error", err)
	}
}
