package indicator

import (
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// Stochastic implements the KD oscillator. RSV is the close's position inside
// the trailing high/low range; K and D are exponential smoothings of RSV and K.
type Stochastic struct {
	period    int
	smoothing float64
}

// StochasticResult holds the K and D columns.
type StochasticResult struct {
	K types.Series
	D types.Series
}

// NewStochastic creates a new KD indicator with default configuration.
func NewStochastic() *Stochastic {
	return &Stochastic{
		period:    9,
		smoothing: 2, // center of mass, alpha = 1/3
	}
}

// Name returns the name of the indicator.
func (s *Stochastic) Name() types.IndicatorType {
	return types.IndicatorTypeStochastic
}

// Config configures the KD indicator. Expected parameters: period (int),
// optional smoothing center of mass (float64).
func (s *Stochastic) Config(params ...any) error {
	if len(params) < 1 || len(params) > 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 or 2 parameters: period (int), smoothing (float64)")
	}

	period, err := intParam(params, 0, "period")
	if err != nil {
		return err
	}

	smoothing := s.smoothing

	if len(params) == 2 {
		com, ok := params[1].(float64)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for smoothing parameter, expected float64")
		}

		if com < 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "smoothing must not be negative, got %f", com)
		}

		smoothing = com
	}

	s.period = period
	s.smoothing = smoothing

	return nil
}

// WarmUp returns the index of the first bar with a full high/low window.
func (s *Stochastic) WarmUp() int {
	return s.period - 1
}

// RSV returns the raw stochastic value per bar. It is undefined during warm-up
// and when the window's highest high equals its lowest low.
func (s *Stochastic) RSV(table types.BarTable) types.Series {
	out := types.NewSeries(table.Len())

	for i := s.period - 1; i < table.Len(); i++ {
		lowest := table.At(i).Low
		highest := table.At(i).High

		for j := i - s.period + 1; j < i; j++ {
			bar := table.At(j)
			lowest = min(lowest, bar.Low)
			highest = max(highest, bar.High)
		}

		if highest == lowest {
			continue
		}

		out[i] = types.Finite((table.At(i).Close - lowest) / (highest - lowest) * 100)
	}

	return out
}

// Calculate returns K and D. The smoother keeps its state through bars with an
// undefined RSV, so K carries its last value and D keeps smoothing it, but the
// exposed K and D are undefined on those bars.
func (s *Stochastic) Calculate(table types.BarTable) StochasticResult {
	rsv := s.RSV(table)
	smoother := newEMAWithCenterOfMass(s.smoothing)

	carriedK := smoother.Calculate(rsv)
	carriedD := smoother.Calculate(carriedK)

	k := types.NewSeries(table.Len())
	d := types.NewSeries(table.Len())

	for i := range rsv {
		if rsv[i].IsNone() {
			continue
		}

		k[i] = carriedK[i]
		d[i] = carriedD[i]
	}

	return StochasticResult{K: k, D: d}
}
