package forecast

import (
	"math"

	"github.com/rxtech-lab/argo-insight/internal/indicator"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

const (
	// TradingDaysPerYear annualizes daily volatility.
	TradingDaysPerYear = 252

	// MinForecastDays and MaxForecastDays bound the prediction horizon.
	MinForecastDays = 1
	MaxForecastDays = 10

	regressionWindow    = 20
	slopeDecay          = 0.8
	maxTrendScore       = 7.0
	trendDailyWeight    = 0.002
	confidenceZ         = 1.96
	fallbackUpside      = 1.05
	fallbackDownside    = 0.95
	fallbackNeutralStop = 0.97
)

// Predictor projects the next trading days from the recent slope, an
// indicator-based trend score and realized volatility.
type Predictor struct {
	minBars int
}

// NewPredictor creates a predictor that needs the indicator warm-up history.
func NewPredictor() *Predictor {
	return &Predictor{
		minBars: indicator.MinBars,
	}
}

// Predict forecasts days future closes, clamped to [MinForecastDays,
// MaxForecastDays]. Frames shorter than the warm-up history fail with an
// *errors.InsufficientDataError, and a projection that overflows fails with
// ErrCodeNonFiniteValue. No forecast fields may be read on error.
func (p *Predictor) Predict(frame types.IndicatorFrame, levels types.Levels, days int) (types.TrendForecast, error) {
	n := frame.Len()
	if n < p.minBars {
		return types.TrendForecast{}, errors.Insufficient("forecast", p.minBars, n, frame.Table.Symbol())
	}

	days = ClampDays(days)
	closes := frame.Table.Closes()
	current := closes[n-1]
	inputs := newTrendInputs(frame.Latest(), current)

	slope := Slope(closes[max(0, n-regressionWindow):])
	annualized := AnnualizedVolatility(closes)
	daily := annualized / math.Sqrt(TradingDaysPerYear)
	score, factors := inputs.score()
	trend := Classify(score)

	forecast := types.TrendForecast{
		CurrentPrice:         current,
		Trend:                trend,
		TrendDescription:     trend.Description(),
		TrendScore:           score,
		TrendFactors:         factors,
		Predictions:          project(current, slope, score, daily, days),
		AnnualizedVolatility: annualized,
		DailyVolatility:      daily,
		Slope:                slope,
		SlopeDirection:       direction(slope > 0),
		MATrend:              direction(inputs.ma5 > inputs.ma20),
		MADiffPct:            inputs.maDiffPct(),
		SupportLevels:        append([]float64{}, levels.Support...),
		ResistanceLevels:     append([]float64{}, levels.Resistance...),
	}

	forecast.TargetPrice, forecast.StopLoss = targets(trend, current, levels)

	if !finite(forecast) {
		return types.TrendForecast{}, errors.Newf(errors.ErrCodeNonFiniteValue,
			"cannot compute forecast of %s: prices are too large for a finite projection", frame.Table.Symbol())
	}

	return forecast, nil
}

// finite reports whether every numeric field of f is a finite number.
func finite(f types.TrendForecast) bool {
	values := []float64{
		f.CurrentPrice, f.AnnualizedVolatility, f.DailyVolatility, f.Slope,
		f.MADiffPct, f.TargetPrice, f.StopLoss,
	}

	for _, p := range f.Predictions {
		values = append(values, p.PredictedPrice, p.LowerBound, p.UpperBound, p.ChangePct)
	}

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// ClampDays bounds a requested horizon to [MinForecastDays, MaxForecastDays].
func ClampDays(days int) int {
	return min(max(days, MinForecastDays), MaxForecastDays)
}

// Classify maps a trend score to its five-band class.
func Classify(score int) types.TrendClass {
	switch {
	case score >= 4:
		return types.TrendStrongUp
	case score >= 2:
		return types.TrendUp
	case score <= -4:
		return types.TrendStrongDown
	case score <= -2:
		return types.TrendDown
	default:
		return types.TrendNeutral
	}
}

// project builds one prediction per horizon day. The linear trend decays by
// slopeDecay per day and the interval widens with the square root of the horizon.
func project(current, slope float64, score int, dailyVolatility float64, days int) []types.Prediction {
	predictions := make([]types.Prediction, 0, days)

	for k := 1; k <= days; k++ {
		horizon := float64(k)
		effectiveSlope := slope * math.Pow(slopeDecay, horizon-1)
		base := current + effectiveSlope*horizon
		adjustment := (float64(score) / maxTrendScore) * current * trendDailyWeight * horizon
		predicted := base + adjustment
		halfWidth := confidenceZ * current * dailyVolatility * math.Sqrt(horizon)

		changePct := 0.0
		if current != 0 {
			changePct = (predicted - current) / current * 100
		}

		predictions = append(predictions, types.Prediction{
			Day:            k,
			PredictedPrice: predicted,
			LowerBound:     math.Max(predicted-halfWidth, 0),
			UpperBound:     predicted + halfWidth,
			ChangePct:      changePct,
		})
	}

	return predictions
}

// targets picks the take-profit and stop-loss prices for the trend class.
func targets(trend types.TrendClass, current float64, levels types.Levels) (target float64, stop float64) {
	support := levels.NearestSupport()
	resistance := levels.NearestResistance()

	switch {
	case trend.IsUp():
		return resistance.TakeOr(current * fallbackUpside), support.TakeOr(current * fallbackDownside)
	case trend.IsDown():
		return support.TakeOr(current * fallbackDownside), resistance.TakeOr(current * fallbackUpside)
	default:
		return current, support.TakeOr(current * fallbackNeutralStop)
	}
}

func direction(up bool) types.Direction {
	if up {
		return types.DirectionUp
	}

	return types.DirectionDown
}
