package forecast

import (
	"github.com/rxtech-lab/argo-insight/internal/types"
)

// trendInputs are the latest indicator readings with neutral defaults for
// undefined values.
type trendInputs struct {
	price      float64
	rsi        float64
	k, d       float64
	macd       float64
	macdSignal float64
	ma5, ma20  float64
}

func newTrendInputs(latest types.IndicatorValues, price float64) trendInputs {
	return trendInputs{
		price:      price,
		rsi:        latest.RSI.TakeOr(50),
		k:          latest.K.TakeOr(50),
		d:          latest.D.TakeOr(50),
		macd:       latest.MACD.TakeOr(0),
		macdSignal: latest.MACDSignal.TakeOr(0),
		ma5:        latest.MA5.TakeOr(price),
		ma20:       latest.MA20.TakeOr(price),
	}
}

// score sums the fixed contributions of each reading and names every one of them.
func (in trendInputs) score() (int, []string) {
	score := 0
	factors := []string{}

	add := func(delta int, factor string) {
		score += delta
		factors = append(factors, factor)
	}

	switch {
	case in.rsi < 30:
		add(2, "RSI oversold, a rebound is likely")
	case in.rsi < 40:
		add(1, "RSI low, room to rebound")
	case in.rsi > 70:
		add(-2, "RSI overbought, a pullback is likely")
	case in.rsi > 60:
		add(-1, "RSI high, watch for a pullback")
	}

	switch {
	case in.k < 20 && in.d < 20:
		add(2, "KD in the low zone, rebound odds are high")
	case in.k > 80 && in.d > 80:
		add(-2, "KD in the high zone, pullback odds are high")
	}

	if in.k > in.d {
		add(1, "K above D, short-term bullish")
	} else {
		add(-1, "K below D, short-term bearish")
	}

	if in.macd > in.macdSignal {
		add(1, "MACD above signal line")
	} else {
		add(-1, "MACD below signal line")
	}

	if in.ma5 > in.ma20 {
		add(1, "short-term average above long-term average")
	} else {
		add(-1, "short-term average below long-term average")
	}

	if in.price > in.ma5 {
		add(1, "price above MA5")
	} else {
		add(-1, "price below MA5")
	}

	return score, factors
}

// maDiffPct is the MA5 premium over MA20 in percent.
func (in trendInputs) maDiffPct() float64 {
	if in.ma20 == 0 {
		return 0
	}

	return (in.ma5 - in.ma20) / in.ma20 * 100
}
