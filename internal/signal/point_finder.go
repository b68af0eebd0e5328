package signal

import (
	"github.com/rxtech-lab/argo-insight/internal/indicator"
	"github.com/rxtech-lab/argo-insight/internal/types"
)

// PointFinder replays a reduced rule set over every bar of a frame to mark
// historical buy and sell points. MACD and Bollinger rules are not part of
// the replay, and an RSI extreme only adds one point.
type PointFinder struct {
	minBars   int
	threshold int
	rsi       RSIBands
}

// NewPointFinder creates a finder that marks bars scoring at least two.
func NewPointFinder() *PointFinder {
	return NewPointFinderWithRSIBands(DefaultRSIBands())
}

// NewPointFinderWithRSIBands creates a finder judging RSI extremes against bands.
func NewPointFinderWithRSIBands(bands RSIBands) *PointFinder {
	return &PointFinder{
		minBars:   indicator.MinBars,
		threshold: 2,
		rsi:       bands,
	}
}

// Find scores each bar i >= 2 against bar i-1. A bar qualifying as a buy point
// is never also a sell point.
func (f *PointFinder) Find(frame types.IndicatorFrame) types.BuySellPoints {
	points := types.BuySellPoints{
		Buy:  []types.HistoricalPoint{},
		Sell: []types.HistoricalPoint{},
	}

	if frame.Len() < f.minBars {
		return points
	}

	for i := 2; i < frame.Len(); i++ {
		buyScore, sellScore := f.score(frame.Row(i-1), frame.Row(i))
		bar := frame.Table.At(i)

		switch {
		case buyScore >= f.threshold:
			points.Buy = append(points.Buy, types.HistoricalPoint{Index: i, Date: bar.Date, Price: bar.Close, Score: buyScore})
		case sellScore >= f.threshold:
			points.Sell = append(points.Sell, types.HistoricalPoint{Index: i, Date: bar.Date, Price: bar.Close, Score: sellScore})
		}
	}

	return points
}

func (f *PointFinder) score(prev, curr types.IndicatorValues) (buyScore int, sellScore int) {
	maPrev := newPair(prev.MA5, prev.MA20)
	maCurr := newPair(curr.MA5, curr.MA20)

	switch {
	case crossedAbove(maPrev, maCurr):
		buyScore += 2
	case crossedBelow(maPrev, maCurr):
		sellScore += 2
	}

	if curr.RSI.IsSome() {
		switch rsi := curr.RSI.Unwrap(); {
		case rsi < f.rsi.Oversold:
			buyScore++
		case rsi > f.rsi.Overbought:
			sellScore++
		}
	}

	kdPrev := newPair(prev.K, prev.D)
	kdCurr := newPair(curr.K, curr.D)

	switch {
	case kdCurr.ok && kdCurr.fast < kdLowZone && crossedAbove(kdPrev, kdCurr):
		buyScore += 2
	case kdCurr.ok && kdCurr.fast > kdHighZone && crossedBelow(kdPrev, kdCurr):
		sellScore += 2
	}

	return buyScore, sellScore
}
