package types

type SignalType string

const (
	// SignalTypeBuy is a bullish observation
	SignalTypeBuy SignalType = "BUY"
	// SignalTypeSell is a bearish observation
	SignalTypeSell SignalType = "SELL"
)

type Signal struct {
	// Indicator is the indicator family that fired
	Indicator IndicatorType `json:"indicator"`
	// Type is the direction of the signal
	Type SignalType `json:"type"`
	// Reason is a human readable rationale
	Reason string `json:"reason"`
	// Strength is the weight added to the buy or sell score
	Strength int `json:"strength"`
}

type Recommendation string

const (
	RecommendationStrongBuy        Recommendation = "STRONG_BUY"
	RecommendationBuy              Recommendation = "BUY"
	RecommendationHold             Recommendation = "HOLD"
	RecommendationSell             Recommendation = "SELL"
	RecommendationStrongSell       Recommendation = "STRONG_SELL"
	RecommendationInsufficientData Recommendation = "INSUFFICIENT_DATA"
)

// Description returns the human readable form of the recommendation.
func (r Recommendation) Description() string {
	switch r {
	case RecommendationStrongBuy:
		return "strong buy signal"
	case RecommendationBuy:
		return "buy signal"
	case RecommendationSell:
		return "sell signal"
	case RecommendationStrongSell:
		return "strong sell signal"
	case RecommendationInsufficientData:
		return "insufficient data to generate signals"
	default:
		return "hold, wait for a clearer signal"
	}
}

// SignalReport aggregates every signal observed on the latest bar.
type SignalReport struct {
	Signals        []Signal       `json:"signals"`
	BuyScore       int            `json:"buy_score"`
	SellScore      int            `json:"sell_score"`
	TotalScore     int            `json:"total_score"`
	Recommendation Recommendation `json:"recommendation"`
	Description    string         `json:"description"`
}

// Sufficient reports whether the report was computed from enough data.
func (r SignalReport) Sufficient() bool {
	return r.Recommendation != RecommendationInsufficientData
}

// HasSignal reports whether a signal of the given indicator and direction fired.
func (r SignalReport) HasSignal(indicator IndicatorType, signalType SignalType) bool {
	for _, s := range r.Signals {
		if s.Indicator == indicator && s.Type == signalType {
			return true
		}
	}

	return false
}
