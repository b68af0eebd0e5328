package indicator

import (
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// Indicator is the configuration surface shared by every technical indicator.
// Each implementation also exposes a typed, causal Calculate method over a bar
// table or a value column; values at index i only depend on inputs at or before i.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config overrides the default parameters
	Config(params ...any) error
	// WarmUp returns the number of bars needed before the first defined value
	WarmUp() int
}

// intParam reads a positive period from params[idx], accepting int or float64.
func intParam(params []any, idx int, name string) (int, error) {
	var period int

	switch v := params[idx].(type) {
	case int:
		period = v
	case float64:
		period = int(v)
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int", name)
	}

	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, period)
	}

	return period, nil
}
