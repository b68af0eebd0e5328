package analysis

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/types"
)

// Request names one analysis run: which bars to load and how far to forecast.
type Request struct {
	Symbol string `json:"symbol"`
	// Path is the bar file read by a FileLoader. Ignored by provider loaders.
	Path         string                     `json:"path,omitempty"`
	Start        optional.Option[time.Time] `json:"start,omitempty"`
	End          optional.Option[time.Time] `json:"end,omitempty"`
	ForecastDays int                        `json:"forecast_days"`
	IncludeFrame bool                       `json:"include_frame,omitempty"`
}

// Options returns the per-call options of the request.
func (r Request) Options() Options {
	return Options{ForecastDays: r.ForecastDays, IncludeFrame: r.IncludeFrame}
}

// Options tune a single Analyze call.
type Options struct {
	// ForecastDays is clamped to [1, 10] by the predictor.
	ForecastDays int
	// IncludeFrame adds every indicator column to the report's JSON form.
	IncludeFrame bool
}

// Report is the complete technical read-out of one bar table.
type Report struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	GeneratedAt time.Time `json:"generated_at"`
	Bars        int       `json:"bars"`
	// LastDate and LastClose describe the most recent bar; None for an empty table.
	LastDate  optional.Option[time.Time] `json:"last_date"`
	LastClose optional.Option[float64]   `json:"last_close"`
	Latest    types.IndicatorValues      `json:"latest"`
	Frame     types.IndicatorFrame       `json:"-"`
	// Columns is the serialized Frame, only set when requested.
	Columns        optional.Option[types.FrameColumns] `json:"frame,omitempty"`
	Levels         types.Levels                        `json:"levels"`
	Signals        types.SignalReport                  `json:"signals"`
	Points         types.BuySellPoints                 `json:"points"`
	Interpretation []string                            `json:"interpretation"`
	// Forecast is None when the table is too short to predict or the projection
	// overflows; ForecastError says why.
	Forecast      optional.Option[types.TrendForecast] `json:"forecast"`
	ForecastError string                               `json:"forecast_error,omitempty"`
}

// HasForecast reports whether a trend forecast was produced.
func (r Report) HasForecast() bool {
	return r.Forecast.IsSome()
}

// Result pairs a batch request with its report or error.
type Result struct {
	Request Request `json:"request"`
	Report  Report  `json:"report"`
	Err     error   `json:"-"`
}

// OK reports whether the request was analysed.
func (r Result) OK() bool {
	return r.Err == nil
}
