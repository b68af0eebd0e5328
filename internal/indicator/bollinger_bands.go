package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// BollingerBands implements the Indicator interface for Bollinger Bands.
type BollingerBands struct {
	period int     // Number of periods for moving average
	stdDev float64 // Number of standard deviations
}

// BollingerBandsResult holds the three band columns.
type BollingerBandsResult struct {
	Upper  types.Series
	Middle types.Series
	Lower  types.Series
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() *BollingerBands {
	return &BollingerBands{
		period: 20,  // Default period
		stdDev: 2.0, // Default standard deviation
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator. Expected parameters: period (int), stdDev (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: period (int), stdDev (float64)")
	}

	period, err := intParam(params, 0, "period")
	if err != nil {
		return err
	}

	stdDev, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for stdDev parameter, expected float64")
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidStdDev, "stdDev must be a positive number, got %f", stdDev)
	}

	bb.period = period
	bb.stdDev = stdDev

	return nil
}

// WarmUp returns the number of bars before the first defined band.
func (bb *BollingerBands) WarmUp() int {
	return bb.period - 1
}

// Calculate returns middle = SMA(period) and upper/lower = middle ± k·σ where σ
// is the population standard deviation of the same window.
func (bb *BollingerBands) Calculate(closes []float64) BollingerBandsResult {
	result := BollingerBandsResult{
		Upper:  types.NewSeries(len(closes)),
		Middle: types.NewSeries(len(closes)),
		Lower:  types.NewSeries(len(closes)),
	}

	for i := bb.period - 1; i < len(closes); i++ {
		window := closes[i-bb.period+1 : i+1]
		middle := calculateSimpleMovingAverage(window)
		band := bb.stdDev * calculateStandardDeviation(window, middle)

		upper, lower := types.Finite(middle+band), types.Finite(middle-band)
		if upper.IsNone() || lower.IsNone() {
			continue
		}

		result.Middle[i] = types.Finite(middle)
		result.Upper[i] = upper
		result.Lower[i] = lower
	}

	return result
}

// calculateStandardDeviation returns the population standard deviation around mean.
func calculateStandardDeviation(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}

	n := float64(len(values))
	sumSquaredDiff := 0.0
	scale := 0.0

	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
		scale = max(scale, math.Abs(diff))
	}

	if !math.IsInf(sumSquaredDiff, 0) || scale == 0 {
		return math.Sqrt(sumSquaredDiff / n)
	}

	// squares overflow: measure the deviations in units of the largest one
	scaled := 0.0

	for _, v := range values {
		diff := (v - mean) / scale
		scaled += diff * diff
	}

	return scale * math.Sqrt(scaled/n)
}
