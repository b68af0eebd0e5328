package types

import (
	"math"
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// Bar is one trading day of price and volume data.
type Bar struct {
	// Date is the calendar day of the bar, truncated to UTC midnight.
	Date   time.Time `yaml:"date" json:"date" csv:"date"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
	// TradedValue is the turnover of the day. None when the source does not report it.
	TradedValue optional.Option[float64] `yaml:"traded_value" json:"traded_value" csv:"traded_value"`
	// TransactionCount is the number of trades. None when the source does not report it.
	TransactionCount optional.Option[float64] `yaml:"transaction_count" json:"transaction_count" csv:"transaction_count"`
	// Change is the signed price change against the previous close.
	Change optional.Option[float64] `yaml:"change" json:"change" csv:"change"`
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks that every numeric field is finite and, except Change,
// non-negative, and that open and close lie inside [low, high].
func (b Bar) Validate() error {
	required := []struct {
		name  string
		value float64
	}{
		{"open", b.Open},
		{"high", b.High},
		{"low", b.Low},
		{"close", b.Close},
		{"volume", b.Volume},
	}

	for _, field := range required {
		if math.IsNaN(field.value) || math.IsInf(field.value, 0) {
			return errors.Newf(errors.ErrCodeNonFiniteValue, "bar %s: %s is not a finite number", b.Date.Format(time.DateOnly), field.name)
		}

		if field.value < 0 {
			return errors.Newf(errors.ErrCodeNegativeValue, "bar %s: %s is negative (%v)", b.Date.Format(time.DateOnly), field.name, field.value)
		}
	}

	if b.Low > b.High {
		return errors.Newf(errors.ErrCodeMalformedInput, "bar %s: low %v is above high %v", b.Date.Format(time.DateOnly), b.Low, b.High)
	}

	for _, field := range required[:4] {
		if field.value < b.Low || field.value > b.High {
			return errors.Newf(errors.ErrCodeMalformedInput, "bar %s: %s %v is outside [%v, %v]",
				b.Date.Format(time.DateOnly), field.name, field.value, b.Low, b.High)
		}
	}

	optionals := []struct {
		name     string
		value    optional.Option[float64]
		unsigned bool
	}{
		{"traded_value", b.TradedValue, true},
		{"transaction_count", b.TransactionCount, true},
		{"change", b.Change, false},
	}

	for _, field := range optionals {
		if field.value.IsNone() {
			continue
		}

		v := field.value.Unwrap()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeNonFiniteValue, "bar %s: %s is not a finite number", b.Date.Format(time.DateOnly), field.name)
		}

		if field.unsigned && v < 0 {
			return errors.Newf(errors.ErrCodeNegativeValue, "bar %s: %s is negative (%v)", b.Date.Format(time.DateOnly), field.name, v)
		}
	}

	return nil
}

// NormalizeBars prepares raw bars coming from a market data source: dates are
// truncated to the calendar day, duplicated days keep their first occurrence and
// the result is sorted by date ascending. The input slice is left untouched.
func NormalizeBars(raw []Bar) []Bar {
	seen := make(map[time.Time]struct{}, len(raw))
	out := make([]Bar, 0, len(raw))

	for _, bar := range raw {
		bar.Date = Day(bar.Date)
		if _, ok := seen[bar.Date]; ok {
			continue
		}

		seen[bar.Date] = struct{}{}
		out = append(out, bar)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out
}
