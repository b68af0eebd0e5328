package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rxtech-lab/argo-insight/internal/config"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download daily bars from a remote provider into a Parquet file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Security identifier, e.g. AAPL or BTCUSDT",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (%s, %s)", config.ProviderPolygon, config.ProviderBinance),
				Value:   string(config.ProviderPolygon),
			},
			&cli.TimestampFlag{
				Name:     "start",
				Usage:    "First day in `YYYY-MM-DD` format",
				Config:   dateLayouts,
				Required: true,
			},
			&cli.TimestampFlag{
				Name:   "end",
				Usage:  "Last day in `YYYY-MM-DD` format. Defaults to today.",
				Value:  time.Now(),
				Config: dateLayouts,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory",
				Value:   "data",
			},
		},
		Action: fetchAction,
	}
}

func fetchAction(ctx context.Context, cmd *cli.Command) error {
	level := cmd.String("log-level")
	if level == "" {
		level = config.Default().LogLevel
	}

	log, err := logger.New(level, logger.FormatConsole)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	marketProvider, err := newProvider(config.Provider(cmd.String("provider")))
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onProgress := func(current, total float64, message string) {
		if bar == nil {
			bar = progressbar.NewOptions(int(total),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription(message),
				progressbar.OptionShowCount(),
			)
		}

		_ = bar.Set(int(current))
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{DataPath: cmd.String("out")}, marketProvider, log, onProgress)
	if err != nil {
		return err
	}

	params := marketdata.DownloadParams{
		Symbol:    cmd.String("symbol"),
		StartDate: cmd.Timestamp("start"),
		EndDate:   cmd.Timestamp("end"),
	}

	path, err := client.Download(ctx, params)
	if err != nil {
		return err
	}

	if bar != nil {
		_ = bar.Finish()
	}

	log.Info("Download completed", zap.String("symbol", params.Symbol), zap.String("path", path))
	fmt.Fprintln(os.Stdout, path)

	return nil
}
