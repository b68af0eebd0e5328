package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// EMA indicator implements a recursive Exponential Moving Average seeded with
// the first observation: ema[0] = x[0], ema[i] = alpha*x[i] + (1-alpha)*ema[i-1].
type EMA struct {
	period int
	alpha  float64
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() *EMA {
	return newSpanEMA(20)
}

// newSpanEMA creates an EMA whose smoothing factor is 2/(period+1). period
// must already be validated.
func newSpanEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  spanAlpha(period),
	}
}

// newEMAWithCenterOfMass creates an EMA whose smoothing factor is 1/(1+com).
func newEMAWithCenterOfMass(com float64) *EMA {
	return &EMA{
		period: int(com),
		alpha:  1 / (1 + com),
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := intParam(params, 0, "period")
	if err != nil {
		return err
	}

	e.period = period
	e.alpha = spanAlpha(period)

	return nil
}

// WarmUp returns zero, the average is defined from the first observation.
func (e *EMA) WarmUp() int {
	return 0
}

// Alpha returns the smoothing factor.
func (e *EMA) Alpha() float64 {
	return e.alpha
}

// CalculateValues smooths a fully defined column.
func (e *EMA) CalculateValues(values []float64) types.Series {
	in := make(types.Series, len(values))
	for i, v := range values {
		in[i] = optional.Some(v)
	}

	return e.Calculate(in)
}

// Calculate smooths a column that may contain undefined entries. Output stays
// undefined until the first observation. Across a gap the last average is
// carried forward and the weight of the old average keeps decaying, so the
// next observation is blended as (w*prev + alpha*x) / (w + alpha) where
// w = (1-alpha)^(gap+1).
func (e *EMA) Calculate(values types.Series) types.Series {
	out := types.NewSeries(len(values))
	decay := 1 - e.alpha

	var (
		weighted float64
		started  bool
		oldWt    = 1.0
	)

	for i, v := range values {
		switch {
		case !started:
			if v.IsSome() {
				weighted = v.Unwrap()
				started = true
			}
		default:
			oldWt *= decay

			if v.IsSome() {
				cur := v.Unwrap()
				if weighted != cur {
					weighted = (oldWt*weighted + e.alpha*cur) / (oldWt + e.alpha)
				}

				oldWt = 1
			}
		}

		if started {
			out[i] = types.Finite(weighted)
		}
	}

	return out
}

func spanAlpha(span int) float64 {
	return 2 / (float64(span) + 1)
}
