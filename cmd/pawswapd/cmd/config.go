package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/pawswap/app"
)

const (
	envPrefix = "PAWSWAP"

	flagHome      = "home"
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

// DefaultNodeHome is the default home directory of pawswapd.
var DefaultNodeHome = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + app.Name
	}
	return filepath.Join(home, "."+app.Name)
}()

// setDefaults registers every config key so environment overrides reach
// Unmarshal.
func setDefaults(v *viper.Viper, cfg app.Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetDefault("api.address", cfg.API.Address)
	v.SetDefault("api.health-address", cfg.API.HealthAddress)
	v.SetDefault("api.rate-limit", cfg.API.RateLimit)
	v.SetDefault("api.burst", cfg.API.Burst)
	v.SetDefault("api.cors-origins", cfg.API.CORSOrigins)
	v.SetDefault("api.read-timeout", cfg.API.ReadTimeout)
	v.SetDefault("api.write-timeout", cfg.API.WriteTimeout)
	v.SetDefault("api.shutdown-timeout", cfg.API.ShutdownTimeout)

	v.SetDefault("ledger.backend", cfg.Ledger.Backend)
	v.SetDefault("ledger.dir", cfg.Ledger.Dir)

	v.SetDefault("dex.swap-fee", cfg.Dex.SwapFee)
	v.SetDefault("dex.minimum-liquidity", cfg.Dex.MinimumLiquidity)
	v.SetDefault("dex.max-hops", cfg.Dex.MaxHops)
	v.SetDefault("dex.max-pools", cfg.Dex.MaxPools)

	v.SetDefault("telemetry.enabled", cfg.Telemetry.Enabled)
	v.SetDefault("telemetry.endpoint", cfg.Telemetry.Endpoint)
	v.SetDefault("telemetry.sample-rate", cfg.Telemetry.SampleRate)
	v.SetDefault("telemetry.environment", cfg.Telemetry.Environment)

	v.SetDefault("genesis", cfg.Genesis)
}

// loadConfig layers defaults, the config file, PAWSWAP_* variables and
// command flags, in increasing precedence.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	v := viper.New()
	setDefaults(v, app.DefaultConfig())

	home, _ := cmd.Flags().GetString(flagHome)
	cfgFile, _ := cmd.Flags().GetString(flagConfig)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(home)
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return app.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"log.level":  flagLogLevel,
		"log.format": flagLogFormat,
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return app.Config{}, err
			}
		}
	}

	var cfg app.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return app.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Ledger.Dir != "" && !filepath.IsAbs(cfg.Ledger.Dir) {
		cfg.Ledger.Dir = filepath.Join(home, cfg.Ledger.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the node logger from the log section.
func newLogger(w io.Writer, cfg app.LogConfig) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if cfg.Format == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...).With("app", app.Name), nil
}
