package signal

import (
	"testing"

	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/stretchr/testify/suite"
)

type InterpretTestSuite struct {
	suite.Suite
}

func TestInterpretSuite(t *testing.T) {
	suite.Run(t, new(InterpretTestSuite))
}

func (suite *InterpretTestSuite) TestEmptyFrame() {
	table, err := types.NewBarTable("", nil)
	suite.Require().NoError(err)

	suite.Empty(Interpret(types.EmptyFrame(table)))
}

func (suite *InterpretTestSuite) TestUndefinedIsSkipped() {
	suite.Empty(Interpret(flatFrame(25)))
}

func (suite *InterpretTestSuite) TestBullishReadout() {
	frame := flatFrame(25)
	frame.RSI[24] = some(55)
	frame.K[24], frame.D[24] = some(85), some(82)
	frame.MACD[24], frame.MACDSignal[24] = some(0.8), some(0.5)
	frame.MA5[24], frame.MA20[24] = some(98), some(95)

	suite.Equal([]string{
		"RSI in bullish territory",
		"KD in the high zone, watch for a pullback",
		"K above D, short-term bullish",
		"MACD above signal line",
		"MACD above zero, trend leaning bullish",
		"price above rising averages, bullish alignment",
	}, Interpret(frame))
}

func (suite *InterpretTestSuite) TestBearishReadout() {
	frame := flatFrame(25)
	frame.RSI[24] = some(20)
	frame.K[24], frame.D[24] = some(10), some(15)
	frame.MACD[24], frame.MACDSignal[24] = some(-0.8), some(-0.5)
	frame.MA5[24], frame.MA20[24] = some(102), some(105)

	suite.Equal([]string{
		"RSI oversold (<30), a rebound is possible",
		"KD in the low zone, a rebound is possible",
		"K below D, short-term bearish",
		"MACD below signal line",
		"MACD below zero, trend leaning bearish",
		"price below falling averages, bearish alignment",
	}, Interpret(frame))
}
