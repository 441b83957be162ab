package cmd

import (
	"fmt"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/paw-chain/pawswap/app"
	"github.com/paw-chain/pawswap/x/dex/types"
)

const flagDisplay = "display"

// QuoteCmd prices trades offline against the configured genesis.
func QuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a trade against the pools of a genesis file",
	}
	cmd.PersistentFlags().Bool(flagDisplay, false, "amounts are whole units instead of base units")
	cmd.AddCommand(
		quoteDirectionCmd("out", "Output received for an exact input along a path"),
		quoteDirectionCmd("in", "Input required for an exact output along a path"),
	)
	return cmd
}

func quoteDirectionCmd(direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:     direction + " [amount] [asset,asset,...]",
		Short:   short,
		Example: fmt.Sprintf("pawswapd quote %s 1000000 upaw,uusdc,uatom --config config.toml", direction),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, _ := cmd.Flags().GetBool(flagDisplay)
			amount, err := parseCLIAmount(args[0], display)
			if err != nil {
				return err
			}
			path := types.ParseSwapPath(args[1])

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Ledger.Backend = app.LedgerBackendMemDB
			a, err := openApp(cmd.Context(), cfg, log.NewNopLogger())
			if err != nil {
				return err
			}
			defer a.Close()

			var amounts []math.Int
			if direction == "out" {
				amounts, err = a.Router.GetAmountsOut(cmd.Context(), amount, path)
			} else {
				amounts, err = a.Router.GetAmountsIn(cmd.Context(), amount, path)
			}
			if err != nil {
				return err
			}

			steps := make([]string, len(amounts))
			for i, amt := range amounts {
				s := amt.String()
				if display {
					s = types.FormatAmount(amt)
				}
				steps[i] = s + path[i]
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(steps, " -> "))
			return err
		},
	}
}

func parseCLIAmount(s string, display bool) (math.Int, error) {
	if display {
		return types.ParseAmount(s)
	}
	return types.ParseBaseUnits(s)
}
