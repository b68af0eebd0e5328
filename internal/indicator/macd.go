package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// MACDResult holds the three MACD columns.
type MACDResult struct {
	MACD      types.Series
	Signal    types.Series
	Histogram types.Series
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() *MACD {
	return &MACD{
		fastPeriod:   12,
		slowPeriod:   26,
		signalPeriod: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fastPeriod (int),
// slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	fast, err := intParam(params, 0, "fastPeriod")
	if err != nil {
		return err
	}

	slow, err := intParam(params, 1, "slowPeriod")
	if err != nil {
		return err
	}

	signal, err := intParam(params, 2, "signalPeriod")
	if err != nil {
		return err
	}

	if fast >= slow {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "fastPeriod (%d) must be less than slowPeriod (%d)", fast, slow)
	}

	m.fastPeriod = fast
	m.slowPeriod = slow
	m.signalPeriod = signal

	return nil
}

// WarmUp returns zero, every EMA in the chain is seeded from the first bar.
func (m *MACD) WarmUp() int {
	return 0
}

// Calculate returns MACD = EMA(fast) - EMA(slow), its signal EMA and the
// histogram MACD - Signal.
func (m *MACD) Calculate(closes []float64) MACDResult {
	fast := newSpanEMA(m.fastPeriod).CalculateValues(closes)
	slow := newSpanEMA(m.slowPeriod).CalculateValues(closes)

	macd := types.NewSeries(len(closes))
	for i := range closes {
		macd[i] = subtract(fast[i], slow[i])
	}

	signal := newSpanEMA(m.signalPeriod).Calculate(macd)

	histogram := types.NewSeries(len(closes))
	for i := range closes {
		histogram[i] = subtract(macd[i], signal[i])
	}

	return MACDResult{
		MACD:      macd,
		Signal:    signal,
		Histogram: histogram,
	}
}

func subtract(a, b optional.Option[float64]) optional.Option[float64] {
	if a.IsNone() || b.IsNone() {
		return optional.None[float64]()
	}

	return types.Finite(a.Unwrap() - b.Unwrap())
}
