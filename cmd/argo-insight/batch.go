package main

import (
	"context"
	"os"

	"github.com/rxtech-lab/argo-insight/internal/analysis"
	"github.com/rxtech-lab/argo-insight/internal/config"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/report"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func batchCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Number of analyses run in parallel",
			Value: 4,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print every report as JSON instead of a summary table",
		},
	}, windowFlags()...)

	return &cli.Command{
		Name:      "batch",
		Usage:     "Analyse many securities in parallel and print a summary",
		ArgsUsage: "FILE... (file provider) or SYMBOL... (remote providers)",
		Flags:     flags,
		Action:    batchAction,
	}
}

func batchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := mergeConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("concurrency") {
		cfg.Batch.Concurrency = int(cmd.Int("concurrency"))
	}

	reqs, err := batchRequests(cfg, cmd.Args().Slice())
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

	bar := progressbar.NewOptions(len(reqs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Analysing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	engine, err := analysis.NewEngineWithSettings(log, cfg.Indicators)
	if err != nil {
		return err
	}

	results, err := engine.AnalyzeBatch(ctx, loader, reqs, cfg.Batch.Concurrency, func(result analysis.Result) {
		if !result.OK() {
			log.Warn("Analysis failed", zap.String("symbol", result.Request.Symbol), zap.Error(result.Err))
		}

		_ = bar.Add(1)
	})
	if err != nil {
		return err
	}

	_ = bar.Finish()

	renderer := report.NewRenderer(os.Stdout)
	if cmd.Bool("json") {
		return renderer.RenderBatchJSON(results)
	}

	return renderer.RenderBatch(results)
}

// batchRequests builds one request per argument: a bar file for the file
// provider, a symbol otherwise. Each request is validated like a single run.
func batchRequests(cfg config.Config, args []string) ([]analysis.Request, error) {
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeMissingParameter, "batch needs at least one file or symbol")
	}

	reqs := make([]analysis.Request, len(args))

	for i, arg := range args {
		item := cfg
		if cfg.Provider == config.ProviderFile {
			item.DataPath = arg
			item.Symbol = symbolFromPath(arg)
		} else {
			item.Symbol = arg
		}

		if err := item.Validate(); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid batch item %q", arg)
		}

		reqs[i] = request(item)
	}

	return reqs, nil
}
