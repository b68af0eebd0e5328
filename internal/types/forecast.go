package types

type TrendClass string

const (
	TrendStrongUp   TrendClass = "STRONG_UP"
	TrendUp         TrendClass = "UP"
	TrendNeutral    TrendClass = "NEUTRAL"
	TrendDown       TrendClass = "DOWN"
	TrendStrongDown TrendClass = "STRONG_DOWN"
)

// Description returns the human readable form of the trend class.
func (t TrendClass) Description() string {
	switch t {
	case TrendStrongUp:
		return "strong uptrend"
	case TrendUp:
		return "bullish"
	case TrendDown:
		return "bearish"
	case TrendStrongDown:
		return "strong downtrend"
	default:
		return "sideways consolidation"
	}
}

// IsUp reports whether the class is UP or STRONG_UP.
func (t TrendClass) IsUp() bool {
	return t == TrendUp || t == TrendStrongUp
}

// IsDown reports whether the class is DOWN or STRONG_DOWN.
func (t TrendClass) IsDown() bool {
	return t == TrendDown || t == TrendStrongDown
}

type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// Prediction is the forecast for one future trading day.
type Prediction struct {
	Day            int     `json:"day"`
	PredictedPrice float64 `json:"predicted_price"`
	LowerBound     float64 `json:"lower_bound"`
	UpperBound     float64 `json:"upper_bound"`
	// ChangePct is the predicted change against the current price, in percent.
	ChangePct float64 `json:"change_pct"`
}

// TrendForecast is the outcome of a trend prediction.
type TrendForecast struct {
	CurrentPrice     float64      `json:"current_price"`
	Trend            TrendClass   `json:"trend"`
	TrendDescription string       `json:"trend_description"`
	TrendScore       int          `json:"trend_score"`
	TrendFactors     []string     `json:"trend_factors"`
	Predictions      []Prediction `json:"predictions"`
	// AnnualizedVolatility is a fraction, 0.25 means 25%.
	AnnualizedVolatility float64   `json:"annualized_volatility"`
	DailyVolatility      float64   `json:"daily_volatility"`
	Slope                float64   `json:"slope"`
	SlopeDirection       Direction `json:"slope_direction"`
	MATrend              Direction `json:"ma_trend"`
	MADiffPct            float64   `json:"ma_diff_pct"`
	TargetPrice          float64   `json:"target_price"`
	StopLoss             float64   `json:"stop_loss"`
	SupportLevels        []float64 `json:"support_levels"`
	ResistanceLevels     []float64 `json:"resistance_levels"`
}
