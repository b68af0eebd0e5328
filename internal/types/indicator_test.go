package types

import (
	"encoding/json"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestIndicatorTypeConstants() {
	suite.Equal(IndicatorType("MA"), IndicatorTypeMA)
	suite.Equal(IndicatorType("EMA"), IndicatorTypeEMA)
	suite.Equal(IndicatorType("RSI"), IndicatorTypeRSI)
	suite.Equal(IndicatorType("MACD"), IndicatorTypeMACD)
	suite.Equal(IndicatorType("KD"), IndicatorTypeStochastic)
	suite.Equal(IndicatorType("BB"), IndicatorTypeBollingerBands)
}

func (suite *IndicatorTestSuite) TestNewSeriesIsUndefined() {
	s := NewSeries(4)
	suite.Len(s, 4)
	suite.Equal(0, s.Defined())

	for _, v := range s {
		suite.True(v.IsNone())
	}
}

func (suite *IndicatorTestSuite) TestSeriesAtOutOfRange() {
	s := Series{optional.Some(1.0)}
	suite.True(s.At(-1).IsNone())
	suite.True(s.At(1).IsNone())
	suite.Equal(1.0, s.At(0).Unwrap())
}

func (suite *IndicatorTestSuite) TestEmptyFrame() {
	table, err := NewBarTable("", []Bar{bar(0, 1), bar(1, 2), bar(2, 3)})
	suite.Require().NoError(err)

	frame := EmptyFrame(table)
	suite.Equal(3, frame.Len())
	suite.Len(frame.BollingerLower, 3)

	latest := frame.Latest()
	suite.True(latest.MA5.IsNone())
	suite.True(latest.RSI.IsNone())
	suite.True(latest.K.IsNone())
}

func (suite *IndicatorTestSuite) TestUndefinedValuesMarshalAsNull() {
	values := IndicatorValues{
		MA5: optional.Some(12.5),
		RSI: optional.None[float64](),
	}

	raw, err := json.Marshal(values)
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal(raw, &decoded))
	suite.Equal(12.5, decoded["ma5"])
	suite.Nil(decoded["rsi"])
	suite.Contains(decoded, "rsi")
}
