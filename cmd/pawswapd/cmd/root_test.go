package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/app"
	ledgertypes "github.com/paw-chain/pawswap/x/ledger/types"
)

func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--"+flagHome, home))
	err := root.Execute()
	return out.String(), err
}

// configCmd exposes loadConfig through the root flags.
func configCmd(t *testing.T, args ...string) (app.Config, error) {
	t.Helper()
	var cfg app.Config
	var loadErr error
	root := NewRootCmd()
	root.AddCommand(&cobra.Command{
		Use: "show-config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loadErr = loadConfig(cmd)
			return nil
		},
	})
	root.SetArgs(append([]string{"show-config"}, args...))
	require.NoError(t, root.Execute())
	return cfg, loadErr
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := configCmd(t, "--home", home)
	require.NoError(t, err)

	want := app.DefaultConfig()
	require.Equal(t, want.Dex, cfg.Dex)
	require.Equal(t, want.API, cfg.API)
	require.Equal(t, want.Telemetry, cfg.Telemetry)
	require.Equal(t, filepath.Join(home, "data"), cfg.Ledger.Dir)
}

func TestLoadConfig_Layers(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte(`
[log]
level = "warn"

[api]
rate-limit = 5.5
cors-origins = ["https://a.example", "https://b.example"]

[dex]
swap-fee = 10
max-hops = 3

[telemetry]
enabled = true
sample-rate = 0.25
`), 0o600))
	t.Setenv("PAWSWAP_DEX_SWAP_FEE", "7")
	t.Setenv("PAWSWAP_LEDGER_DIR", "/var/lib/pawswap")
	t.Setenv("PAWSWAP_TELEMETRY_ENDPOINT", "jaeger:4318")

	cfg, err := configCmd(t, "--home", home, "--log-format", "plain")
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "plain", cfg.Log.Format)
	require.Equal(t, 5.5, cfg.API.RateLimit)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.CORSOrigins)
	require.Equal(t, uint64(7), cfg.Dex.SwapFee)
	require.Equal(t, uint32(3), cfg.Dex.MaxHops)
	require.Equal(t, "/var/lib/pawswap", cfg.Ledger.Dir)
	require.True(t, cfg.Telemetry.Enabled)
	require.Equal(t, 0.25, cfg.Telemetry.SampleRate)
	require.Equal(t, "jaeger:4318", cfg.Telemetry.Endpoint)

	// flags win over the file
	cfg, err = configCmd(t, "--home", home, "--log-level", "debug")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Errors(t *testing.T) {
	home := t.TempDir()
	_, err := configCmd(t, "--home", home, "--config", filepath.Join(home, "missing.yaml"))
	require.ErrorContains(t, err, "read config")

	t.Setenv("PAWSWAP_DEX_SWAP_FEE", "1000")
	_, err = configCmd(t, "--home", home)
	require.ErrorContains(t, err, "dex")

	t.Setenv("PAWSWAP_DEX_SWAP_FEE", "3")
	t.Setenv("PAWSWAP_TELEMETRY_ENABLED", "true")
	t.Setenv("PAWSWAP_TELEMETRY_SAMPLE_RATE", "3")
	_, err = configCmd(t, "--home", home)
	require.ErrorContains(t, err, "telemetry")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, app.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "pools", 2)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"pools":2`)

	_, err = newLogger(&buf, app.LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
}

func TestGenesisWorkflow(t *testing.T) {
	home := t.TempDir()
	file := filepath.Join(home, "genesis.json")

	_, err := execute(t, home, "genesis", "default", "--output", file)
	require.NoError(t, err)

	_, err = execute(t, home, "genesis", "add-balance", file, "alice", "5000000", "upaw")
	require.NoError(t, err)
	_, err = execute(t, home, "genesis", "add-balance", file, "alice", "5000000", "uusdc")
	require.NoError(t, err)

	out, err := execute(t, home, "genesis", "add-liquidity", file, "alice", "upaw", "uusdc", "1000000", "2000000")
	require.NoError(t, err)
	require.Contains(t, out, "minted 1413213 shares of pool 1")

	out, err = execute(t, home, "genesis", "validate", file)
	require.NoError(t, err)
	require.Contains(t, out, "valid: 1 pools")

	t.Setenv("PAWSWAP_GENESIS", file)
	out, err = execute(t, home, "quote", "out", "10000", "upaw,uusdc")
	require.NoError(t, err)
	require.Equal(t, "10000upaw -> 19743uusdc\n", out)

	_, err = execute(t, home, "quote", "out", "10000", "upaw,uatom")
	require.Error(t, err)

	// a genesis whose pools are not backed by custody is rejected
	gs, err := app.ReadGenesisFile(file)
	require.NoError(t, err)
	gs[ledgertypes.ModuleName] = []byte(`{"balances":[],"allowances":[]}`)
	require.NoError(t, app.WriteGenesisFile(file, gs))
	_, err = execute(t, home, "genesis", "validate", file)
	require.ErrorContains(t, err, "pool-reserves")
}

func TestGenesisAddLiquidity_RejectsUnfunded(t *testing.T) {
	home := t.TempDir()
	file := filepath.Join(home, "genesis.json")
	_, err := execute(t, home, "genesis", "default", "--output", file)
	require.NoError(t, err)

	before, err := os.ReadFile(file)
	require.NoError(t, err)
	_, err = execute(t, home, "genesis", "add-liquidity", file, "bob", "upaw", "uusdc", "1000000", "2000000")
	require.Error(t, err)

	after, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Equal(t, before, after)
}
