package datasource

import (
	"iter"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/types"
)

// Format is the on-disk encoding of a bar file.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// Required columns every bar file must carry. Matching is case-insensitive.
var requiredColumns = []string{"date", "open", "high", "low", "close", "volume"}

// Optional columns mapped onto the optional Bar fields when present.
var optionalColumns = []string{"traded_value", "transaction_count", "change"}

type DataSource interface {
	// Initialize exposes the bar file at path (CSV or Parquet) to the data source
	Initialize(path string) error
	// ReadAll yields the bars between start and end (inclusive) in date order
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.Bar, error]
	// ReadBars collects ReadAll into a slice
	ReadBars(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error)
	// Count returns the number of bars between start and end
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}
