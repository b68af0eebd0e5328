package main

import (
	"context"
	"os"

	"github.com/rxtech-lab/argo-insight/internal/analysis"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/report"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func analyzeCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "CSV or Parquet bar file (file provider)",
		},
		&cli.StringFlag{
			Name:    "symbol",
			Aliases: []string{"s"},
			Usage:   "Security identifier; defaults to the data file name",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the report as JSON",
		},
		&cli.BoolFlag{
			Name:  "frame",
			Usage: "Include every indicator column in the JSON report",
		},
	}, windowFlags()...)

	return &cli.Command{
		Name:   "analyze",
		Usage:  "Analyse one security and print its report",
		Flags:  flags,
		Action: analyzeAction,
	}
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, logger.FormatConsole)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	loader, err := newLoader(cfg, log)
	if err != nil {
		return err
	}

	log.Info("Analysing",
		zap.String("symbol", cfg.Symbol),
		zap.String("provider", string(cfg.Provider)),
		zap.String("data", cfg.DataPath),
	)

	engine, err := analysis.NewEngineWithSettings(log, cfg.Indicators)
	if err != nil {
		return err
	}

	req := request(cfg)
	req.IncludeFrame = cmd.Bool("frame")

	result, err := engine.AnalyzeSource(ctx, loader, req)
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(os.Stdout)
	if cmd.Bool("json") {
		return renderer.RenderJSON(result)
	}

	return renderer.Render(result)
}
