package indicator

import (
	"github.com/rxtech-lab/argo-insight/internal/types"
)

// MinBars is the shortest history for which any indicator is computed.
const MinBars = 20

// movingAveragePeriods are the MA columns of the frame, in order.
var movingAveragePeriods = [4]int{5, 10, 20, 60}

// Calculator computes the full indicator frame of a bar table.
type Calculator struct {
	registry *Registry
	averages [4]*MA
}

// NewCalculator creates a calculator with the standard indicator set:
// MA 5/10/20/60, RSI(14), MACD(12,26,9), KD(9) and Bollinger(20,2).
func NewCalculator() *Calculator {
	// every default indicator has a distinct name
	registry, _ := NewRegistry(NewRSI(), NewMACD(), NewStochastic(), NewBollingerBands())

	c := &Calculator{registry: registry}
	for i, period := range movingAveragePeriods {
		// the fixed periods are all positive
		c.averages[i], _ = NewMAWithPeriod(period)
	}

	return c
}

// Registry exposes the configurable indicators. The moving averages have fixed
// periods and are not part of it.
func (c *Calculator) Registry() *Registry {
	return c.registry
}

// MinBars returns the shortest history for which indicators are defined.
func (c *Calculator) MinBars() int {
	return MinBars
}

// Calculate returns the indicator frame of table. Below MinBars every column is
// undefined. The input table is never modified.
func (c *Calculator) Calculate(table types.BarTable) types.IndicatorFrame {
	frame := types.EmptyFrame(table)
	if table.Len() < MinBars {
		return frame
	}

	closes := table.Closes()

	frame.MA5 = c.averages[0].Calculate(closes)
	frame.MA10 = c.averages[1].Calculate(closes)
	frame.MA20 = c.averages[2].Calculate(closes)
	frame.MA60 = c.averages[3].Calculate(closes)

	frame.RSI = lookup[*RSI](c.registry, types.IndicatorTypeRSI, NewRSI).Calculate(closes)

	macd := lookup[*MACD](c.registry, types.IndicatorTypeMACD, NewMACD).Calculate(closes)
	frame.MACD = macd.MACD
	frame.MACDSignal = macd.Signal
	frame.MACDHistogram = macd.Histogram

	kd := lookup[*Stochastic](c.registry, types.IndicatorTypeStochastic, NewStochastic).Calculate(table)
	frame.K = kd.K
	frame.D = kd.D

	bands := lookup[*BollingerBands](c.registry, types.IndicatorTypeBollingerBands, NewBollingerBands).Calculate(closes)
	frame.BollingerUpper = bands.Upper
	frame.BollingerMiddle = bands.Middle
	frame.BollingerLower = bands.Lower

	return frame
}

// lookup returns the registered indicator of the given name, or a default one
// when the registry holds none of the expected type.
func lookup[T Indicator](registry *Registry, name types.IndicatorType, fallback func() T) T {
	ind, ok := registry.Get(name)
	if !ok {
		return fallback()
	}

	typed, ok := ind.(T)
	if !ok {
		return fallback()
	}

	return typed
}
