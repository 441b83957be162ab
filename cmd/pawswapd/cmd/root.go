package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the pawswapd root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pawswapd",
		Short: "PAW constant-product exchange daemon",
		Long: `pawswapd runs a constant-product exchange over a token ledger and serves
read-only pool, quote and balance queries over HTTP.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().String(flagHome, DefaultNodeHome, "directory for config and data")
	rootCmd.PersistentFlags().String(flagConfig, "", "config file (default is $HOME/config.{toml,yaml,json})")
	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String(flagLogFormat, "json", "log format (json|plain)")

	rootCmd.AddCommand(
		StartCmd(),
		QuoteCmd(),
		GenesisCmd(),
	)
	return rootCmd
}
