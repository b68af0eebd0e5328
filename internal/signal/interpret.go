package signal

import (
	"github.com/rxtech-lab/argo-insight/internal/types"
)

// Interpret reads out the latest bar of a frame as short observations.
// Indicators that are undefined on that bar are left out.
func Interpret(frame types.IndicatorFrame) []string {
	notes := []string{}
	if frame.Len() == 0 {
		return notes
	}

	latest := frame.Latest()

	if latest.RSI.IsSome() {
		switch rsi := latest.RSI.Unwrap(); {
		case rsi > rsiOverbought:
			notes = append(notes, "RSI overbought (>70), a pullback is possible")
		case rsi < rsiOversold:
			notes = append(notes, "RSI oversold (<30), a rebound is possible")
		case rsi > 50:
			notes = append(notes, "RSI in bullish territory")
		default:
			notes = append(notes, "RSI in bearish territory")
		}
	}

	if kd := newPair(latest.K, latest.D); kd.ok {
		switch {
		case kd.fast > 80 && kd.slow > 80:
			notes = append(notes, "KD in the high zone, watch for a pullback")
		case kd.fast < 20 && kd.slow < 20:
			notes = append(notes, "KD in the low zone, a rebound is possible")
		}

		if kd.fast > kd.slow {
			notes = append(notes, "K above D, short-term bullish")
		} else {
			notes = append(notes, "K below D, short-term bearish")
		}
	}

	if macd := newPair(latest.MACD, latest.MACDSignal); macd.ok {
		if macd.fast > macd.slow {
			notes = append(notes, "MACD above signal line")
		} else {
			notes = append(notes, "MACD below signal line")
		}

		if macd.fast > 0 {
			notes = append(notes, "MACD above zero, trend leaning bullish")
		} else {
			notes = append(notes, "MACD below zero, trend leaning bearish")
		}
	}

	if ma := newPair(latest.MA5, latest.MA20); ma.ok {
		closePrice := frame.Table.Last().Close

		switch {
		case closePrice > ma.fast && ma.fast > ma.slow:
			notes = append(notes, "price above rising averages, bullish alignment")
		case closePrice < ma.fast && ma.fast < ma.slow:
			notes = append(notes, "price below falling averages, bearish alignment")
		}
	}

	return notes
}
