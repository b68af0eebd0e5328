package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// MA indicator implements Simple Moving Average calculation.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() *MA {
	return &MA{
		period: 20, // Default period
	}
}

// NewMAWithPeriod creates a MA over the given number of bars.
func NewMAWithPeriod(period int) (*MA, error) {
	ma := NewMA()
	if err := ma.Config(period); err != nil {
		return nil, err
	}

	return ma, nil
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config expects parameters: period (int).
func (m *MA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := intParam(params, 0, "period")
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

// WarmUp returns the number of bars before the first defined average.
func (m *MA) WarmUp() int {
	return m.period - 1
}

// Period returns the configured window length.
func (m *MA) Period() int {
	return m.period
}

// Calculate returns the trailing simple average of values. The first period-1
// entries are undefined.
func (m *MA) Calculate(values []float64) types.Series {
	out := types.NewSeries(len(values))

	for i := m.period - 1; i < len(values); i++ {
		out[i] = types.Finite(calculateSimpleMovingAverage(values[i-m.period+1 : i+1]))
	}

	return out
}

// calculateSimpleMovingAverage returns the mean of window. When the plain sum
// overflows the terms are divided first, so any finite window has a finite mean.
func calculateSimpleMovingAverage(window []float64) float64 {
	n := float64(len(window))
	sum := 0.0

	for _, v := range window {
		sum += v
	}

	if !math.IsInf(sum, 0) {
		return sum / n
	}

	mean := 0.0
	for _, v := range window {
		mean += v / n
	}

	return mean
}
