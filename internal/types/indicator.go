package types

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
)

type IndicatorType string

const (
	IndicatorTypeMA             IndicatorType = "MA"
	IndicatorTypeEMA            IndicatorType = "EMA"
	IndicatorTypeRSI            IndicatorType = "RSI"
	IndicatorTypeMACD           IndicatorType = "MACD"
	IndicatorTypeStochastic     IndicatorType = "KD"
	IndicatorTypeBollingerBands IndicatorType = "BB"
)

// Series is a per-bar indicator column. A None entry means the value is
// undefined at that bar (warm-up window or degenerate math).
type Series []optional.Option[float64]

// NewSeries returns a series of n undefined values.
func NewSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = optional.None[float64]()
	}

	return s
}

// Finite wraps v as a defined value, or None when v is NaN or infinite.
func Finite(v float64) optional.Option[float64] {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return optional.None[float64]()
	}

	return optional.Some(v)
}

// At returns the value at index i, or None when i is out of range.
func (s Series) At(i int) optional.Option[float64] {
	if i < 0 || i >= len(s) {
		return optional.None[float64]()
	}

	return s[i]
}

// Defined reports how many entries hold a value.
func (s Series) Defined() int {
	n := 0

	for _, v := range s {
		if v.IsSome() {
			n++
		}
	}

	return n
}

// IndicatorValues is one bar's slice across every indicator column.
type IndicatorValues struct {
	MA5             optional.Option[float64] `json:"ma5"`
	MA10            optional.Option[float64] `json:"ma10"`
	MA20            optional.Option[float64] `json:"ma20"`
	MA60            optional.Option[float64] `json:"ma60"`
	RSI             optional.Option[float64] `json:"rsi"`
	MACD            optional.Option[float64] `json:"macd"`
	MACDSignal      optional.Option[float64] `json:"macd_signal"`
	MACDHistogram   optional.Option[float64] `json:"macd_histogram"`
	K               optional.Option[float64] `json:"k"`
	D               optional.Option[float64] `json:"d"`
	BollingerUpper  optional.Option[float64] `json:"bollinger_upper"`
	BollingerMiddle optional.Option[float64] `json:"bollinger_middle"`
	BollingerLower  optional.Option[float64] `json:"bollinger_lower"`
}

// IndicatorFrame is a bar table augmented with one Series per indicator, each
// sized to the table.
type IndicatorFrame struct {
	Table BarTable

	MA5             Series
	MA10            Series
	MA20            Series
	MA60            Series
	RSI             Series
	MACD            Series
	MACDSignal      Series
	MACDHistogram   Series
	K               Series
	D               Series
	BollingerUpper  Series
	BollingerMiddle Series
	BollingerLower  Series
}

// EmptyFrame returns a frame over table where every indicator is undefined.
func EmptyFrame(table BarTable) IndicatorFrame {
	n := table.Len()

	return IndicatorFrame{
		Table:           table,
		MA5:             NewSeries(n),
		MA10:            NewSeries(n),
		MA20:            NewSeries(n),
		MA60:            NewSeries(n),
		RSI:             NewSeries(n),
		MACD:            NewSeries(n),
		MACDSignal:      NewSeries(n),
		MACDHistogram:   NewSeries(n),
		K:               NewSeries(n),
		D:               NewSeries(n),
		BollingerUpper:  NewSeries(n),
		BollingerMiddle: NewSeries(n),
		BollingerLower:  NewSeries(n),
	}
}

// Len returns the number of bars in the frame.
func (f IndicatorFrame) Len() int {
	return f.Table.Len()
}

// Row returns every indicator value at bar i.
func (f IndicatorFrame) Row(i int) IndicatorValues {
	return IndicatorValues{
		MA5:             f.MA5.At(i),
		MA10:            f.MA10.At(i),
		MA20:            f.MA20.At(i),
		MA60:            f.MA60.At(i),
		RSI:             f.RSI.At(i),
		MACD:            f.MACD.At(i),
		MACDSignal:      f.MACDSignal.At(i),
		MACDHistogram:   f.MACDHistogram.At(i),
		K:               f.K.At(i),
		D:               f.D.At(i),
		BollingerUpper:  f.BollingerUpper.At(i),
		BollingerMiddle: f.BollingerMiddle.At(i),
		BollingerLower:  f.BollingerLower.At(i),
	}
}

// Latest returns the indicator values of the most recent bar.
func (f IndicatorFrame) Latest() IndicatorValues {
	return f.Row(f.Len() - 1)
}

// FrameColumns is the column-wise JSON form of an IndicatorFrame: one entry per
// bar in every array, undefined indicator values encoded as null.
type FrameColumns struct {
	Dates           []string  `json:"dates"`
	Open            []float64 `json:"open"`
	High            []float64 `json:"high"`
	Low             []float64 `json:"low"`
	Close           []float64 `json:"close"`
	Volume          []float64 `json:"volume"`
	MA5             Series    `json:"ma5"`
	MA10            Series    `json:"ma10"`
	MA20            Series    `json:"ma20"`
	MA60            Series    `json:"ma60"`
	RSI             Series    `json:"rsi"`
	MACD            Series    `json:"macd"`
	MACDSignal      Series    `json:"macd_signal"`
	MACDHistogram   Series    `json:"macd_histogram"`
	K               Series    `json:"k"`
	D               Series    `json:"d"`
	BollingerUpper  Series    `json:"bollinger_upper"`
	BollingerMiddle Series    `json:"bollinger_middle"`
	BollingerLower  Series    `json:"bollinger_lower"`
}

// Columns returns the frame as parallel columns for charting clients.
func (f IndicatorFrame) Columns() FrameColumns {
	n := f.Len()
	cols := FrameColumns{
		Dates:           make([]string, n),
		Open:            make([]float64, n),
		High:            make([]float64, n),
		Low:             make([]float64, n),
		Close:           make([]float64, n),
		Volume:          make([]float64, n),
		MA5:             f.MA5,
		MA10:            f.MA10,
		MA20:            f.MA20,
		MA60:            f.MA60,
		RSI:             f.RSI,
		MACD:            f.MACD,
		MACDSignal:      f.MACDSignal,
		MACDHistogram:   f.MACDHistogram,
		K:               f.K,
		D:               f.D,
		BollingerUpper:  f.BollingerUpper,
		BollingerMiddle: f.BollingerMiddle,
		BollingerLower:  f.BollingerLower,
	}

	for i := range n {
		bar := f.Table.At(i)
		cols.Dates[i] = bar.Date.Format(time.DateOnly)
		cols.Open[i] = bar.Open
		cols.High[i] = bar.High
		cols.Low[i] = bar.Low
		cols.Close[i] = bar.Close
		cols.Volume[i] = bar.Volume
	}

	return cols
}
