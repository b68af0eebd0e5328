package types

import "time"

// HistoricalPoint marks a past bar whose replayed score crossed the threshold.
type HistoricalPoint struct {
	Index int       `json:"index"`
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
	Score int       `json:"score"`
}

// BuySellPoints holds the buy and sell markers of a single backtest pass, each
// ordered by index ascending.
type BuySellPoints struct {
	Buy  []HistoricalPoint `json:"buy_points"`
	Sell []HistoricalPoint `json:"sell_points"`
}
