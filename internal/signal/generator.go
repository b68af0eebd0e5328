package signal

import (
	"fmt"

	"github.com/rxtech-lab/argo-insight/internal/indicator"
	"github.com/rxtech-lab/argo-insight/internal/types"
)

const (
	rsiOversold            = 30.0
	rsiOverbought          = 70.0
	rsiApproachBand        = 10.0
	kdLowZone              = 30.0
	kdHighZone             = 70.0
	strongScoreThreshold   = 4
	moderateScoreThreshold = 2
)

// RSIBands are the oversold and overbought RSI levels. Within
// rsiApproachBand of either level a weaker signal is raised.
type RSIBands struct {
	Oversold   float64
	Overbought float64
}

// DefaultRSIBands returns the 30/70 bands.
func DefaultRSIBands() RSIBands {
	return RSIBands{Oversold: rsiOversold, Overbought: rsiOverbought}
}

// Generator scores the latest bar of an indicator frame against the previous one.
type Generator struct {
	minBars int
	rsi     RSIBands
}

// NewGenerator creates a generator that needs the indicator warm-up history.
func NewGenerator() *Generator {
	return NewGeneratorWithRSIBands(DefaultRSIBands())
}

// NewGeneratorWithRSIBands creates a generator judging RSI against bands.
func NewGeneratorWithRSIBands(bands RSIBands) *Generator {
	return &Generator{
		minBars: indicator.MinBars,
		rsi:     bands,
	}
}

// Generate evaluates every rule on the last two bars. Rules whose inputs are
// undefined are skipped. Short frames return an empty report with the
// insufficient data recommendation.
func (g *Generator) Generate(frame types.IndicatorFrame) types.SignalReport {
	if frame.Len() < g.minBars {
		return types.SignalReport{
			Signals:        []types.Signal{},
			Recommendation: types.RecommendationInsufficientData,
			Description:    types.RecommendationInsufficientData.Description(),
		}
	}

	last := frame.Len() - 1
	curr := frame.Row(last)
	prev := frame.Row(last - 1)
	closePrice := frame.Table.At(last).Close

	var signals []types.Signal

	signals = append(signals, movingAverageSignals(prev, curr)...)
	signals = append(signals, rsiSignals(curr, g.rsi)...)
	signals = append(signals, stochasticSignals(prev, curr)...)
	signals = append(signals, macdSignals(prev, curr)...)
	signals = append(signals, bollingerSignals(curr, closePrice)...)

	report := types.SignalReport{Signals: make([]types.Signal, 0, len(signals))}

	for _, s := range signals {
		report.Signals = append(report.Signals, s)

		if s.Type == types.SignalTypeBuy {
			report.BuyScore += s.Strength
		} else {
			report.SellScore += s.Strength
		}
	}

	report.TotalScore = report.BuyScore - report.SellScore
	report.Recommendation = Recommend(report.TotalScore)
	report.Description = report.Recommendation.Description()

	return report
}

// Recommend maps a net score to its recommendation band.
func Recommend(total int) types.Recommendation {
	switch {
	case total >= strongScoreThreshold:
		return types.RecommendationStrongBuy
	case total >= moderateScoreThreshold:
		return types.RecommendationBuy
	case total <= -strongScoreThreshold:
		return types.RecommendationStrongSell
	case total <= -moderateScoreThreshold:
		return types.RecommendationSell
	default:
		return types.RecommendationHold
	}
}

func movingAverageSignals(prev, curr types.IndicatorValues) []types.Signal {
	p := newPair(prev.MA5, prev.MA20)
	c := newPair(curr.MA5, curr.MA20)

	switch {
	case crossedAbove(p, c):
		return []types.Signal{buy(types.IndicatorTypeMA, 2, "MA5 crossed above MA20 (golden cross)")}
	case crossedBelow(p, c):
		return []types.Signal{sell(types.IndicatorTypeMA, 2, "MA5 crossed below MA20 (death cross)")}
	default:
		return nil
	}
}

func rsiSignals(curr types.IndicatorValues, bands RSIBands) []types.Signal {
	if curr.RSI.IsNone() {
		return nil
	}

	rsi := curr.RSI.Unwrap()

	switch {
	case rsi < bands.Oversold:
		return []types.Signal{buy(types.IndicatorTypeRSI, 2, fmt.Sprintf("RSI=%.1f oversold", rsi))}
	case rsi < bands.Oversold+rsiApproachBand:
		return []types.Signal{buy(types.IndicatorTypeRSI, 1, fmt.Sprintf("RSI=%.1f approaching oversold", rsi))}
	case rsi > bands.Overbought:
		return []types.Signal{sell(types.IndicatorTypeRSI, 2, fmt.Sprintf("RSI=%.1f overbought", rsi))}
	case rsi > bands.Overbought-rsiApproachBand:
		return []types.Signal{sell(types.IndicatorTypeRSI, 1, fmt.Sprintf("RSI=%.1f approaching overbought", rsi))}
	default:
		return nil
	}
}

func stochasticSignals(prev, curr types.IndicatorValues) []types.Signal {
	p := newPair(prev.K, prev.D)
	c := newPair(curr.K, curr.D)

	switch {
	case c.ok && c.fast < kdLowZone && crossedAbove(p, c):
		return []types.Signal{buy(types.IndicatorTypeStochastic, 2, fmt.Sprintf("KD golden cross in low zone (K=%.1f)", c.fast))}
	case c.ok && c.fast > kdHighZone && crossedBelow(p, c):
		return []types.Signal{sell(types.IndicatorTypeStochastic, 2, fmt.Sprintf("KD death cross in high zone (K=%.1f)", c.fast))}
	default:
		return nil
	}
}

func macdSignals(prev, curr types.IndicatorValues) []types.Signal {
	p := newPair(prev.MACD, prev.MACDSignal)
	c := newPair(curr.MACD, curr.MACDSignal)

	switch {
	case crossedAbove(p, c):
		return []types.Signal{buy(types.IndicatorTypeMACD, 2, "MACD golden cross")}
	case crossedBelow(p, c):
		return []types.Signal{sell(types.IndicatorTypeMACD, 2, "MACD death cross")}
	default:
		return nil
	}
}

func bollingerSignals(curr types.IndicatorValues, closePrice float64) []types.Signal {
	if curr.BollingerUpper.IsNone() || curr.BollingerLower.IsNone() {
		return nil
	}

	switch {
	case closePrice <= curr.BollingerLower.Unwrap():
		return []types.Signal{buy(types.IndicatorTypeBollingerBands, 1, "price touched the lower Bollinger band")}
	case closePrice >= curr.BollingerUpper.Unwrap():
		return []types.Signal{sell(types.IndicatorTypeBollingerBands, 1, "price touched the upper Bollinger band")}
	default:
		return nil
	}
}

func buy(ind types.IndicatorType, strength int, reason string) types.Signal {
	return types.Signal{Indicator: ind, Type: types.SignalTypeBuy, Reason: reason, Strength: strength}
}

func sell(ind types.IndicatorType, strength int, reason string) types.Signal {
	return types.Signal{Indicator: ind, Type: types.SignalTypeSell, Reason: reason, Strength: strength}
}
