package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paw-chain/pawswap/api"
	"github.com/paw-chain/pawswap/app"
	"github.com/paw-chain/pawswap/app/health"
	"github.com/paw-chain/pawswap/app/telemetry"
)

const flagExportOnExit = "export-on-exit"

// StartCmd runs the query API and the health/metrics listener until interrupted.
func StartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Load genesis and serve the query API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			exportPath, _ := cmd.Flags().GetString(flagExportOnExit)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runNode(ctx, cfg, logger, exportPath)
		},
	}
	cmd.Flags().String(flagExportOnExit, "", "write the final state as genesis to this file on shutdown")
	return cmd
}

func runNode(ctx context.Context, cfg app.Config, logger log.Logger, exportPath string) error {
	tracing, err := telemetry.NewProvider(cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
		defer cancel()
		if err := tracing.Shutdown(sctx); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
	}()
	if cfg.Telemetry.Enabled {
		logger.Info("tracing enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}

	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close ledger", "error", err)
		}
	}()

	server, err := api.NewServer(a, cfg.API, logger)
	if err != nil {
		return err
	}
	checker, err := health.NewChecker(logger, health.DefaultConfig(), a.DexKeeper)
	if err != nil {
		return err
	}

	opsRouter := mux.NewRouter()
	checker.RegisterRoutes(opsRouter)
	opsRouter.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	opsServer := &http.Server{
		Addr:              cfg.API.HealthAddress,
		Handler:           opsRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(gctx) })
	g.Go(func() error { return api.Serve(gctx, opsServer, cfg.API.ShutdownTimeout, logger.With("server", "ops")) })
	if err := g.Wait(); err != nil {
		return err
	}

	if exportPath != "" {
		gs, err := a.ExportGenesis(context.Background())
		if err != nil {
			return err
		}
		if err := app.WriteGenesisFile(exportPath, gs); err != nil {
			return err
		}
		logger.Info("state exported", "path", exportPath)
	}
	return nil
}

// openApp builds the app and loads the configured genesis, or an empty
// registry with the configured params when none is set. A persistent ledger
// that already holds state is resumed and the genesis is not replayed.
func openApp(ctx context.Context, cfg app.Config, logger log.Logger) (*app.App, error) {
	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	gs := app.NewDefaultGenesisState(cfg.DexParams())
	if cfg.Genesis != "" {
		if gs, err = app.ReadGenesisFile(cfg.Genesis); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	resumed, err := a.LoadState(ctx, gs)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	logger.Info("state loaded", "resumed", resumed, "pools", a.DexKeeper.AllPairsLength())
	return a, nil
}
