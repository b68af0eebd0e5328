package forecast

import "math"

// Slope returns the least-squares slope of values against x = 0..n-1.
// Fewer than two points have no slope.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if len(values) < 2 {
		return 0
	}

	meanX := (n - 1) / 2
	meanY := 0.0

	for _, v := range values {
		meanY += v
	}

	meanY /= n

	var num, den float64

	for i, v := range values {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}

	return num / den
}

// Returns returns the simple daily returns of closes. A return over a zero
// close is reported as zero.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	out := make([]float64, len(closes)-1)

	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}

		out[i-1] = (closes[i] - closes[i-1]) / closes[i-1]
	}

	return out
}

// AnnualizedVolatility is the population standard deviation of daily returns
// scaled by sqrt(TradingDaysPerYear). An empty return series has zero volatility.
func AnnualizedVolatility(closes []float64) float64 {
	returns := Returns(closes)
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear)
}
