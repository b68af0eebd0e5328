package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/analysis"
	"github.com/rxtech-lab/argo-insight/internal/config"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/marketdata/provider"
	"github.com/urfave/cli/v3"
)

var dateLayouts = cli.TimestampConfig{Layouts: []string{time.DateOnly, time.RFC3339}}

// windowFlags are shared by every command that loads bars.
func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file; flags override its values",
		},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   "Where bars come from (file, polygon, binance)",
			Value:   string(config.ProviderFile),
		},
		&cli.IntFlag{
			Name:  "days",
			Usage: "Trading days to forecast (1-10)",
			Value: 5,
		},
		&cli.IntFlag{
			Name:  "lookback",
			Usage: "Calendar days of history fetched from a remote provider when no start is given",
			Value: 180,
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "First day of the history window in `YYYY-MM-DD` format",
			Config: dateLayouts,
		},
		&cli.TimestampFlag{
			Name:   "end",
			Usage:  "Last day of the history window in `YYYY-MM-DD` format",
			Config: dateLayouts,
		},
	}
}

// resolveConfig merges the config file (if any) with explicitly set flags
// and validates the result.
func resolveConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := mergeConfig(cmd)
	if err != nil {
		return config.Config{}, err
	}

	if cfg.Symbol == "" && cfg.DataPath != "" {
		cfg.Symbol = symbolFromPath(cfg.DataPath)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// mergeConfig applies explicitly set flags on top of the config file or the defaults.
func mergeConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Read(path)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	if cmd.IsSet("symbol") {
		cfg.Symbol = cmd.String("symbol")
	}

	if cmd.IsSet("data") {
		cfg.DataPath = cmd.String("data")
	}

	if cmd.IsSet("provider") {
		cfg.Provider = config.Provider(cmd.String("provider"))
	}

	if cmd.IsSet("days") {
		cfg.ForecastDays = int(cmd.Int("days"))
	}

	if cmd.IsSet("lookback") {
		cfg.LookbackDays = int(cmd.Int("lookback"))
	}

	if cmd.IsSet("start") {
		cfg.StartTime = optional.Some(cmd.Timestamp("start"))
	}

	if cmd.IsSet("end") {
		cfg.EndTime = optional.Some(cmd.Timestamp("end"))
	}

	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

// newLoader returns the bar loader of the configured provider. Remote
// providers read their credentials from the environment.
func newLoader(cfg config.Config, log *logger.Logger) (analysis.Loader, error) {
	if cfg.Provider == config.ProviderFile {
		return analysis.NewFileLoader(log), nil
	}

	marketProvider, err := newProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	return analysis.NewProviderLoader(marketProvider, cfg.LookbackDays), nil
}

func newProvider(kind config.Provider) (provider.Provider, error) {
	secrets, err := config.LoadSecrets()
	if err != nil {
		return nil, err
	}

	if err := secrets.Require(kind); err != nil {
		return nil, err
	}

	return provider.NewProvider(kind, secrets)
}

func request(cfg config.Config) analysis.Request {
	return analysis.Request{
		Symbol:       cfg.Symbol,
		Path:         cfg.DataPath,
		Start:        cfg.StartTime,
		End:          cfg.EndTime,
		ForecastDays: cfg.ForecastDays,
	}
}

// symbolFromPath names a bar file's security: the base name up to the first
// underscore, so downloaded files like AAPL_2024-01-01_2024-06-30_1d.parquet map to AAPL.
func symbolFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if before, _, found := strings.Cut(name, "_"); found && before != "" {
		return before
	}

	return name
}
