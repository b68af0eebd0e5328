package report

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

const missing = "-"

// Price renders a price with two decimals, rounding half away from zero.
func Price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Percent renders a percentage value (5.0 means 5%) with two decimals and a sign.
func Percent(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}

	return d.StringFixed(2) + "%"
}

// Fraction renders a fraction (0.25 means 25%) as an unsigned percentage.
func Fraction(v float64) string {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// OptionalPrice renders a defined value like Price and an undefined one as "-".
func OptionalPrice(v optional.Option[float64]) string {
	if v.IsNone() {
		return missing
	}

	return Price(v.Unwrap())
}

// OptionalDate renders a defined day as YYYY-MM-DD and an undefined one as "-".
func OptionalDate(v optional.Option[time.Time]) string {
	if v.IsNone() {
		return missing
	}

	return v.Unwrap().Format(time.DateOnly)
}
