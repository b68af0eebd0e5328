package types

import (
	"time"

	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// BarTable is the validated, date-ascending sequence of daily bars every
// analysis step reads from. It is never mutated after construction.
type BarTable struct {
	symbol string
	bars   []Bar
}

// NewBarTable validates bars and wraps a private copy of them.
// Dates must be strictly increasing calendar days and all values must pass Bar.Validate.
func NewBarTable(symbol string, bars []Bar) (BarTable, error) {
	owned := make([]Bar, len(bars))

	for i, bar := range bars {
		if err := bar.Validate(); err != nil {
			return BarTable{}, errors.Wrapf(errors.ErrCodeMalformedInput, err, "invalid bar at index %d", i)
		}

		bar.Date = Day(bar.Date)

		if i > 0 {
			prev := owned[i-1].Date
			if bar.Date.Equal(prev) {
				return BarTable{}, errors.Wrapf(errors.ErrCodeMalformedInput,
					errors.Newf(errors.ErrCodeDuplicateDate, "duplicate bar date %s", bar.Date.Format(time.DateOnly)),
					"invalid bar at index %d", i)
			}

			if bar.Date.Before(prev) {
				return BarTable{}, errors.Wrapf(errors.ErrCodeMalformedInput,
					errors.Newf(errors.ErrCodeUnorderedDate, "bar date %s is before %s", bar.Date.Format(time.DateOnly), prev.Format(time.DateOnly)),
					"invalid bar at index %d", i)
			}
		}

		owned[i] = bar
	}

	return BarTable{symbol: symbol, bars: owned}, nil
}

// Symbol returns the instrument the table belongs to. It may be empty.
func (t BarTable) Symbol() string {
	return t.symbol
}

// Len returns the number of bars.
func (t BarTable) Len() int {
	return len(t.bars)
}

// At returns the bar at index i.
func (t BarTable) At(i int) Bar {
	return t.bars[i]
}

// Last returns the most recent bar. The table must not be empty.
func (t BarTable) Last() Bar {
	return t.bars[len(t.bars)-1]
}

// Bars returns a copy of the underlying bars.
func (t BarTable) Bars() []Bar {
	out := make([]Bar, len(t.bars))
	copy(out, t.bars)

	return out
}

// Closes returns the close prices in date order.
func (t BarTable) Closes() []float64 {
	return t.column(func(b Bar) float64 { return b.Close })
}

// Highs returns the high prices in date order.
func (t BarTable) Highs() []float64 {
	return t.column(func(b Bar) float64 { return b.High })
}

// Lows returns the low prices in date order.
func (t BarTable) Lows() []float64 {
	return t.column(func(b Bar) float64 { return b.Low })
}

func (t BarTable) column(pick func(Bar) float64) []float64 {
	out := make([]float64, len(t.bars))
	for i, bar := range t.bars {
		out[i] = pick(bar)
	}

	return out
}
