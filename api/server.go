package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/paw-chain/pawswap/app"
)

// Server is the read-only HTTP query API over an App.
type Server struct {
	router  *gin.Engine
	app     *app.App
	config  app.APIConfig
	logger  log.Logger
	limiter *IPRateLimiter
}

// NewServer creates a new API server instance
func NewServer(a *app.App, config app.APIConfig, logger log.Logger) (*Server, error) {
	if a == nil {
		return nil, fmt.Errorf("app is required")
	}
	if config.RateLimit <= 0 || config.Burst <= 0 {
		return nil, fmt.Errorf("rate limit and burst must be positive")
	}
	s := &Server{
		app:     a,
		config:  config,
		logger:  logger.With("module", "api"),
		limiter: NewIPRateLimiter(config.RateLimit, config.Burst),
	}
	s.setupRouter()
	return s, nil
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Global middleware - ORDER MATTERS!
	// 1. Recovery (must be first to catch panics)
	s.router.Use(RecoveryMiddleware(s.logger))

	// 2. Security headers
	s.router.Use(SecurityHeadersMiddleware())

	// 3. Request ID (for tracing)
	s.router.Use(RequestIDMiddleware())

	// 4. Logging
	s.router.Use(LoggerMiddleware(s.logger))

	// 5. Rate limiting (before any handler work)
	s.router.Use(RateLimitMiddleware(s.limiter))

	s.router.GET("/health", s.healthCheck)
	s.registerRoutes()
}

// Handler returns the router wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}).Handler(s.router)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.config.WriteTimeout,
	}
	go s.limiter.Run(ctx, limiterCleanupInterval)
	return Serve(ctx, srv, s.config.ShutdownTimeout, s.logger)
}

// Serve runs srv until ctx is cancelled. It is shared by the API and the
// health listener.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", srv.Addr, err)
	}
	logger.Info("server stopped", "address", srv.Addr)
	return nil
}

// healthCheck handles the health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"pools":  s.app.DexKeeper.AllPairsLength(),
		"time":   s.app.DexKeeper.Now().Format(time.RFC3339),
	})
}
