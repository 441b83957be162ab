package app

import (
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/app/telemetry"
	dextypes "github.com/paw-chain/pawswap/x/dex/types"
)

const (
	// LedgerBackendMemDB keeps balances in memory only.
	LedgerBackendMemDB = "memdb"
	// LedgerBackendGoLevelDB persists balances under Ledger.Dir.
	LedgerBackendGoLevelDB = "goleveldb"

	ledgerDBName = "ledger"
)

// Config holds the node configuration. Field tags match the keys read by viper.
type Config struct {
	Log       LogConfig        `mapstructure:"log"`
	API       APIConfig        `mapstructure:"api"`
	Ledger    LedgerConfig     `mapstructure:"ledger"`
	Dex       DexConfig        `mapstructure:"dex"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
	Genesis   string           `mapstructure:"genesis"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// APIConfig configures the HTTP query API and the health/metrics listener.
type APIConfig struct {
	Address         string        `mapstructure:"address"`
	HealthAddress   string        `mapstructure:"health-address"`
	RateLimit       float64       `mapstructure:"rate-limit"`
	Burst           int           `mapstructure:"burst"`
	CORSOrigins     []string      `mapstructure:"cors-origins"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// LedgerConfig selects the database backing the token ledger.
type LedgerConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// DexConfig mirrors dextypes.Params in config-friendly types.
type DexConfig struct {
	SwapFee          uint64 `mapstructure:"swap-fee"`
	MinimumLiquidity int64  `mapstructure:"minimum-liquidity"`
	MaxHops          uint32 `mapstructure:"max-hops"`
	MaxPools         uint32 `mapstructure:"max-pools"`
}

// DefaultConfig returns default node configuration
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "json"},
		API: APIConfig{
			Address:         "127.0.0.1:1317",
			HealthAddress:   "127.0.0.1:36661",
			RateLimit:       100,
			Burst:           200,
			CORSOrigins:     []string{"http://localhost:3000"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Ledger: LedgerConfig{Backend: LedgerBackendMemDB, Dir: "data"},
		Dex: DexConfig{
			SwapFee:          dextypes.DefaultSwapFee,
			MinimumLiquidity: dextypes.DefaultMinimumLiquidity,
			MaxHops:          dextypes.DefaultMaxHops,
			MaxPools:         dextypes.DefaultMaxPools,
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}

// DexParams converts the dex section into engine parameters.
func (c Config) DexParams() dextypes.Params {
	return dextypes.Params{
		SwapFee:          c.Dex.SwapFee,
		MinimumLiquidity: math.NewInt(c.Dex.MinimumLiquidity),
		MaxHops:          c.Dex.MaxHops,
		MaxPools:         c.Dex.MaxPools,
	}
}

// Validate checks the configuration before any component is built.
func (c Config) Validate() error {
	switch strings.ToLower(c.Ledger.Backend) {
	case LedgerBackendMemDB:
	case LedgerBackendGoLevelDB:
		if strings.TrimSpace(c.Ledger.Dir) == "" {
			return fmt.Errorf("ledger.dir is required for the %s backend", LedgerBackendGoLevelDB)
		}
	default:
		return fmt.Errorf("unknown ledger.backend %q", c.Ledger.Backend)
	}
	switch c.Log.Format {
	case "json", "plain":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	if c.API.RateLimit <= 0 || c.API.Burst <= 0 {
		return fmt.Errorf("api.rate-limit and api.burst must be positive")
	}
	if err := c.DexParams().Validate(); err != nil {
		return fmt.Errorf("dex: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}
