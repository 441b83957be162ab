package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/paw-chain/pawswap/app"
	dextypes "github.com/paw-chain/pawswap/x/dex/types"
)

const flagOutput = "output"

// GenesisCmd groups the genesis file helpers.
func GenesisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Create, edit and validate genesis files",
	}
	cmd.PersistentFlags().Bool(flagDisplay, false, "amounts are whole units instead of base units")
	cmd.AddCommand(
		genesisDefaultCmd(),
		genesisValidateCmd(),
		genesisAddBalanceCmd(),
		genesisAddLiquidityCmd(),
	)
	return cmd
}

func genesisDefaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print an empty genesis using the configured dex params",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gs := app.NewDefaultGenesisState(cfg.DexParams())
			if out, _ := cmd.Flags().GetString(flagOutput); out != "" {
				return app.WriteGenesisFile(out, gs)
			}
			bz, err := json.MarshalIndent(gs, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}
	cmd.Flags().String(flagOutput, "", "write to this file instead of stdout")
	return cmd
}

func genesisValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Load a genesis file and check every invariant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadGenesisApp(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "genesis %s is valid: %d pools\n", args[0], a.DexKeeper.AllPairsLength())
			return err
		},
	}
}

func genesisAddBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-balance [file] [holder] [amount] [asset]",
		Short: "Mint a ledger balance into a genesis file",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, _ := cmd.Flags().GetBool(flagDisplay)
			amount, err := parseCLIAmount(args[2], display)
			if err != nil {
				return err
			}
			return editGenesis(cmd, args[0], func(ctx context.Context, a *app.App) error {
				return a.LedgerKeeper.Mint(ctx, args[1], args[3], amount)
			})
		},
	}
}

func genesisAddLiquidityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-liquidity [file] [provider] [asset-a] [asset-b] [amount-a] [amount-b]",
		Short: "Deposit a provider's balances into a pool, creating it if needed",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, _ := cmd.Flags().GetBool(flagDisplay)
			amountA, err := parseCLIAmount(args[4], display)
			if err != nil {
				return err
			}
			amountB, err := parseCLIAmount(args[5], display)
			if err != nil {
				return err
			}
			provider, assetA, assetB := args[1], args[2], args[3]

			return editGenesis(cmd, args[0], func(ctx context.Context, a *app.App) error {
				for asset, amount := range map[string]math.Int{assetA: amountA, assetB: amountB} {
					allowance := a.LedgerKeeper.Allowance(ctx, provider, dextypes.ModuleAccount, asset)
					if err := a.LedgerKeeper.Approve(ctx, provider, dextypes.ModuleAccount, asset, allowance.Add(amount)); err != nil {
						return err
					}
				}
				res, err := a.Router.AddLiquidity(ctx, provider, assetA, assetB, amountA, amountB,
					math.ZeroInt(), math.ZeroInt(), provider, a.DexKeeper.Now().Add(time.Minute))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "minted %s shares of pool %d\n", res.Shares, res.PoolId)
				return err
			})
		},
	}
}

// loadGenesisApp opens an in-memory app over the genesis at path.
func loadGenesisApp(cmd *cobra.Command, path string) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Ledger.Backend = app.LedgerBackendMemDB
	cfg.Genesis = path
	return openApp(cmd.Context(), cfg, log.NewNopLogger())
}

// editGenesis loads path, applies edit and writes the exported state back.
func editGenesis(cmd *cobra.Command, path string, edit func(context.Context, *app.App) error) error {
	a, err := loadGenesisApp(cmd, path)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := edit(ctx, a); err != nil {
		return err
	}
	gs, err := a.ExportGenesis(ctx)
	if err != nil {
		return err
	}
	return app.WriteGenesisFile(path, gs)
}
