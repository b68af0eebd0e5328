package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/forecast"
	"github.com/rxtech-lab/argo-insight/internal/indicator"
	"github.com/rxtech-lab/argo-insight/internal/levels"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/signal"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine runs the full pipeline over a bar table: indicators, support and
// resistance, signals, historical points, interpretation and forecast.
// It holds no per-run state and is safe for concurrent use.
type Engine struct {
	logger     *logger.Logger
	calculator *indicator.Calculator
	detector   *levels.Detector
	generator  *signal.Generator
	finder     *signal.PointFinder
	predictor  *forecast.Predictor
	now        func() time.Time
	newID      func() string
}

// NewEngine creates an engine with the default indicator settings.
func NewEngine(log *logger.Logger) *Engine {
	return newEngine(log, indicator.NewCalculator())
}

// NewEngineWithSettings creates an engine whose indicators are configured by
// settings. The RSI levels also drive the signal and historical point rules.
func NewEngineWithSettings(log *logger.Logger, settings indicator.Settings) (*Engine, error) {
	calculator := indicator.NewCalculator()
	if err := calculator.Apply(settings); err != nil {
		return nil, err
	}

	registry := calculator.Registry()
	log.Debug("Indicators configured",
		zap.Any("indicators", registry.Names()),
		zap.Int("warm_up", registry.WarmUp()),
	)

	return newEngine(log, calculator), nil
}

func newEngine(log *logger.Logger, calculator *indicator.Calculator) *Engine {
	oversold, overbought := calculator.RSIThresholds()
	bands := signal.RSIBands{Oversold: oversold, Overbought: overbought}

	return &Engine{
		logger:     log,
		calculator: calculator,
		detector:   levels.NewDetector(),
		generator:  signal.NewGeneratorWithRSIBands(bands),
		finder:     signal.NewPointFinderWithRSIBands(bands),
		predictor:  forecast.NewPredictor(),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// Analyze computes the report of table. Short tables are not an error: every
// component degrades to its empty result and the forecast is None with
// ForecastError set.
func (e *Engine) Analyze(table types.BarTable, opts Options) (Report, error) {
	started := e.now()

	frame := e.calculator.Calculate(table)

	report := Report{
		ID:             e.newID(),
		Symbol:         table.Symbol(),
		GeneratedAt:    started.UTC(),
		Bars:           table.Len(),
		LastDate:       optional.None[time.Time](),
		LastClose:      optional.None[float64](),
		Latest:         frame.Latest(),
		Frame:          frame,
		Levels:         e.detector.Detect(frame),
		Signals:        e.generator.Generate(frame),
		Points:         e.finder.Find(frame),
		Interpretation: signal.Interpret(frame),
		Forecast:       optional.None[types.TrendForecast](),
	}

	if opts.IncludeFrame {
		report.Columns = optional.Some(frame.Columns())
	}

	if table.Len() > 0 {
		report.LastDate = optional.Some(table.Last().Date)
		report.LastClose = optional.Some(table.Last().Close)
	}

	prediction, err := e.predictor.Predict(frame, report.Levels, opts.ForecastDays)

	switch {
	case err == nil:
		report.Forecast = optional.Some(prediction)
	case errors.IsInsufficientDataError(err), errors.HasCode(err, errors.ErrCodeNonFiniteValue):
		report.ForecastError = err.Error()
	default:
		return Report{}, errors.Wrap(errors.ErrCodeForecastFailed, "trend prediction failed", err)
	}

	e.logger.Debug("Analysis finished",
		zap.String("symbol", report.Symbol),
		zap.Int("bars", report.Bars),
		zap.String("recommendation", string(report.Signals.Recommendation)),
		zap.Bool("forecast", report.HasForecast()),
		zap.Duration("elapsed", e.now().Sub(started)),
	)

	return report, nil
}

// AnalyzeBars normalises raw bars, validates them into a table and analyses it.
func (e *Engine) AnalyzeBars(symbol string, raw []types.Bar, opts Options) (Report, error) {
	table, err := types.NewBarTable(symbol, types.NormalizeBars(raw))
	if err != nil {
		return Report{}, err
	}

	return e.Analyze(table, opts)
}

// AnalyzeSource loads the bars of req through loader and analyses them.
func (e *Engine) AnalyzeSource(ctx context.Context, loader Loader, req Request) (Report, error) {
	raw, err := loader.Load(ctx, req)
	if err != nil {
		e.logger.Warn("Failed to load bars", zap.String("symbol", req.Symbol), zap.Error(err))

		return Report{}, err
	}

	return e.AnalyzeBars(req.Symbol, raw, req.Options())
}

// AnalyzeBatch analyses independent requests with at most concurrency running
// at once. Results keep the order of reqs and carry per-request errors; the
// returned error is only set when ctx ends before every request ran. onDone,
// when not nil, is called from worker goroutines as each request finishes.
func (e *Engine) AnalyzeBatch(ctx context.Context, loader Loader, reqs []Request, concurrency int, onDone func(Result)) ([]Result, error) {
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for i, req := range reqs {
		results[i].Request = req

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err

				return nil
			}

			report, err := e.AnalyzeSource(gctx, loader, req)
			results[i].Report = report
			results[i].Err = err

			if onDone != nil {
				onDone(results[i])
			}

			return nil
		})
	}

	// workers never return an error; per-request failures live in results
	_ = g.Wait()

	e.logger.Info("Batch finished",
		zap.Int("requests", len(reqs)),
		zap.Int("concurrency", concurrency),
	)

	return results, ctx.Err()
}
