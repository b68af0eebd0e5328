package indicator

import (
	"github.com/rxtech-lab/argo-insight/internal/types"
)

// Settings are the tunable parameters of the registered indicators. The zero
// value is not usable; start from DefaultSettings.
type Settings struct {
	RSI        RSISettings        `yaml:"rsi" json:"rsi"`
	MACD       MACDSettings       `yaml:"macd" json:"macd"`
	Stochastic StochasticSettings `yaml:"kd" json:"kd"`
	Bollinger  BollingerSettings  `yaml:"bollinger" json:"bollinger"`
}

type RSISettings struct {
	Period     int     `yaml:"period" json:"period" validate:"gte=1" jsonschema:"title=Period,description=Rolling window of gains and losses,minimum=1,default=14"`
	Oversold   float64 `yaml:"oversold" json:"oversold" validate:"gte=0,lt=100" jsonschema:"title=Oversold,description=RSI below this is a buy signal,minimum=0,maximum=100,default=30"`
	Overbought float64 `yaml:"overbought" json:"overbought" validate:"lte=100,gtfield=Oversold" jsonschema:"title=Overbought,description=RSI above this is a sell signal,minimum=0,maximum=100,default=70"`
}

type MACDSettings struct {
	Fast   int `yaml:"fast" json:"fast" validate:"gte=1" jsonschema:"title=Fast,minimum=1,default=12"`
	Slow   int `yaml:"slow" json:"slow" validate:"gtfield=Fast" jsonschema:"title=Slow,minimum=2,default=26"`
	Signal int `yaml:"signal" json:"signal" validate:"gte=1" jsonschema:"title=Signal,minimum=1,default=9"`
}

type StochasticSettings struct {
	Period    int     `yaml:"period" json:"period" validate:"gte=1" jsonschema:"title=Period,description=High/low window of RSV,minimum=1,default=9"`
	Smoothing float64 `yaml:"smoothing" json:"smoothing" validate:"gte=0" jsonschema:"title=Smoothing,description=Center of mass of the K and D smoothing,default=2"`
}

type BollingerSettings struct {
	Period int     `yaml:"period" json:"period" validate:"gte=1" jsonschema:"title=Period,minimum=1,default=20"`
	StdDev float64 `yaml:"std_dev" json:"std_dev" validate:"gt=0" jsonschema:"title=Standard Deviations,description=Band width in population standard deviations,default=2"`
}

// DefaultSettings returns RSI(14, 30/70), MACD(12,26,9), KD(9, 2) and Bollinger(20, 2).
func DefaultSettings() Settings {
	return Settings{
		RSI:        RSISettings{Period: 14, Oversold: 30, Overbought: 70},
		MACD:       MACDSettings{Fast: 12, Slow: 26, Signal: 9},
		Stochastic: StochasticSettings{Period: 9, Smoothing: 2},
		Bollinger:  BollingerSettings{Period: 20, StdDev: 2},
	}
}

// Apply configures every registered indicator from s. It stops at the first
// rejected parameter set; indicators configured before it keep their new values.
func (c *Calculator) Apply(s Settings) error {
	steps := []struct {
		name   types.IndicatorType
		params []any
	}{
		{types.IndicatorTypeRSI, []any{s.RSI.Period, s.RSI.Oversold, s.RSI.Overbought}},
		{types.IndicatorTypeMACD, []any{s.MACD.Fast, s.MACD.Slow, s.MACD.Signal}},
		{types.IndicatorTypeStochastic, []any{s.Stochastic.Period, s.Stochastic.Smoothing}},
		{types.IndicatorTypeBollingerBands, []any{s.Bollinger.Period, s.Bollinger.StdDev}},
	}

	for _, step := range steps {
		if err := c.registry.Configure(step.name, step.params...); err != nil {
			return err
		}
	}

	return nil
}

// RSIThresholds returns the oversold and overbought levels of the registered RSI.
func (c *Calculator) RSIThresholds() (lower float64, upper float64) {
	return lookup[*RSI](c.registry, types.IndicatorTypeRSI, NewRSI).Thresholds()
}
