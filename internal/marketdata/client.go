package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/marketdata/provider"
	"github.com/rxtech-lab/argo-insight/internal/marketdata/writer"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"go.uber.org/zap"
)

// OnDownloadProgress reports how many of total bars have been written.
type OnDownloadProgress = func(current float64, total float64, message string)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	DataPath string `validate:"required"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Symbol    string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// Client downloads daily bars from a provider and stores them as Parquet files
// the file data source can read back.
type Client struct {
	provider   provider.Provider
	newWriter  func(outputPath string) writer.BarWriter
	config     ClientConfig
	validate   *validator.Validate
	logger     *logger.Logger
	onProgress OnDownloadProgress
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, marketProvider provider.Provider, log *logger.Logger, onProgress OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	if onProgress == nil {
		onProgress = func(float64, float64, string) {}
	}

	return &Client{
		provider: marketProvider,
		newWriter: func(outputPath string) writer.BarWriter {
			return writer.NewDuckDBWriter(outputPath, log)
		},
		config:     config,
		validate:   validate,
		logger:     log,
		onProgress: onProgress,
	}, nil
}

// OutputPath returns the file a download with params is stored in:
// SYMBOL_START_END_1d.parquet under the data path.
func (c *Client) OutputPath(params DownloadParams) string {
	name := fmt.Sprintf("%s_%s_%s_1d.parquet",
		params.Symbol,
		params.StartDate.Format(time.DateOnly),
		params.EndDate.Format(time.DateOnly))

	return filepath.Join(c.config.DataPath, name)
}

// Download fetches the bars of params and writes them to OutputPath.
// The context can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	raw, err := c.provider.FetchDailyBars(ctx, params.Symbol, params.StartDate, params.EndDate)
	if err != nil {
		return "", err
	}

	bars := types.NormalizeBars(raw)
	if len(bars) == 0 {
		return "", errors.Newf(errors.ErrCodeDataNotFound, "no bars for %s between %s and %s",
			params.Symbol, params.StartDate.Format(time.DateOnly), params.EndDate.Format(time.DateOnly))
	}

	if err := os.MkdirAll(c.config.DataPath, 0o755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to create data path %s", c.config.DataPath)
	}

	barWriter := c.newWriter(c.OutputPath(params))
	if err := barWriter.Initialize(); err != nil {
		return "", err
	}

	defer func() {
		if err := barWriter.Close(); err != nil {
			c.logger.Warn("Failed to close writer", zap.Error(err))
		}
	}()

	message := fmt.Sprintf("Writing %s", params.Symbol)
	for i, bar := range bars {
		if err := barWriter.Write(params.Symbol, bar); err != nil {
			return "", err
		}

		c.onProgress(float64(i+1), float64(len(bars)), message)
	}

	return barWriter.Finalize()
}
