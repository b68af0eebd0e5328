package indicator

import (
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// RSI represents the Relative Strength Index indicator. Average gain and loss
// are plain rolling means of the per-bar close deltas.
type RSI struct {
	period            int
	rsiLowerThreshold float64
	rsiUpperThreshold float64
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() *RSI {
	return &RSI{
		period:            14, // Default period
		rsiLowerThreshold: 30,
		rsiUpperThreshold: 70,
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int),
// optional lower threshold (float64), optional upper threshold (float64).
func (r *RSI) Config(params ...any) error {
	if len(params) < 1 || len(params) > 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: period (int)")
	}

	period, err := intParam(params, 0, "period")
	if err != nil {
		return err
	}

	lower, upper := r.rsiLowerThreshold, r.rsiUpperThreshold

	if len(params) >= 2 {
		threshold, ok := params[1].(float64)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for threshold parameter, expected float64")
		}

		lower = threshold
	}

	if len(params) == 3 {
		threshold, ok := params[2].(float64)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for threshold parameter, expected float64")
		}

		upper = threshold
	}

	if lower < 0 || upper > 100 || lower >= upper {
		return errors.Newf(errors.ErrCodeInvalidParameter, "invalid RSI thresholds: lower %.2f, upper %.2f", lower, upper)
	}

	r.period = period
	r.rsiLowerThreshold = lower
	r.rsiUpperThreshold = upper

	return nil
}

// WarmUp returns the index of the first defined RSI. The first bar has no
// delta, so a full window of deltas ends at index period.
func (r *RSI) WarmUp() int {
	return r.period
}

// Thresholds returns the oversold and overbought levels.
func (r *RSI) Thresholds() (lower float64, upper float64) {
	return r.rsiLowerThreshold, r.rsiUpperThreshold
}

// Calculate returns RSI = 100 - 100/(1+avgGain/avgLoss) for each bar. The value
// is undefined during warm-up and on bars whose average loss is zero.
func (r *RSI) Calculate(closes []float64) types.Series {
	out := types.NewSeries(len(closes))

	for i := r.period; i < len(closes); i++ {
		gainSum, lossSum := 0.0, 0.0

		for j := i - r.period + 1; j <= i; j++ {
			delta := closes[j] - closes[j-1]
			if delta > 0 {
				gainSum += delta
			} else {
				lossSum -= delta
			}
		}

		avgGain := gainSum / float64(r.period)
		avgLoss := lossSum / float64(r.period)

		if avgLoss == 0 {
			continue
		}

		rs := avgGain / avgLoss
		out[i] = types.Finite(100 - (100 / (1 + rs)))
	}

	return out
}
