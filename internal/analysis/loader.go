package analysis

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-insight/internal/datasource"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/marketdata/provider"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// Loader fetches the raw bars of a request. Bars may be unsorted or carry
// duplicate days; the engine normalises them.
type Loader interface {
	Load(ctx context.Context, req Request) ([]types.Bar, error)
}

// FileLoader reads bars from CSV or Parquet files through a data source.
// Every Load opens its own data source, so one loader serves parallel requests.
type FileLoader struct {
	open func() (datasource.DataSource, error)
}

// NewFileLoader creates a loader backed by in-memory DuckDB data sources.
func NewFileLoader(log *logger.Logger) *FileLoader {
	return NewFileLoaderWithOpener(func() (datasource.DataSource, error) {
		return datasource.NewDataSource("", log)
	})
}

// NewFileLoaderWithOpener creates a loader that obtains data sources from open.
func NewFileLoaderWithOpener(open func() (datasource.DataSource, error)) *FileLoader {
	return &FileLoader{open: open}
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, req Request) ([]types.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Path == "" {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "no bar file given for %s", req.Symbol)
	}

	source, err := l.open()
	if err != nil {
		return nil, err
	}
	defer source.Close()

	if err := source.Initialize(req.Path); err != nil {
		return nil, err
	}

	return source.ReadBars(req.Start, req.End)
}

// ProviderLoader downloads bars from a remote market data provider.
type ProviderLoader struct {
	provider     provider.Provider
	lookbackDays int
	now          func() time.Time
}

// NewProviderLoader creates a loader that asks p for lookbackDays calendar
// days of history when a request has no start.
func NewProviderLoader(p provider.Provider, lookbackDays int) *ProviderLoader {
	return &ProviderLoader{
		provider:     p,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// Load implements Loader.
func (l *ProviderLoader) Load(ctx context.Context, req Request) ([]types.Bar, error) {
	end := req.End.TakeOr(l.now())
	start := req.Start.TakeOr(end.AddDate(0, 0, -l.lookbackDays))

	return l.provider.FetchDailyBars(ctx, req.Symbol, start, end)
}
