package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-insight/mocks"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SettingsTestSuite struct {
	suite.Suite
	calculator *Calculator
}

func TestSettingsSuite(t *testing.T) {
	suite.Run(t, new(SettingsTestSuite))
}

func (suite *SettingsTestSuite) SetupTest() {
	suite.calculator = NewCalculator()
}

func (suite *SettingsTestSuite) TestDefaultsLeaveFrameUnchanged() {
	table := mocks.NewDataGenerator(11).GenerateTable(mocks.DefaultConfig())
	before := suite.calculator.Calculate(table)

	suite.Require().NoError(suite.calculator.Apply(DefaultSettings()))
	suite.Equal(before, suite.calculator.Calculate(table))

	lower, upper := suite.calculator.RSIThresholds()
	suite.Equal(30.0, lower)
	suite.Equal(70.0, upper)
}

func (suite *SettingsTestSuite) TestApplyConfiguresEveryIndicator() {
	settings := DefaultSettings()
	settings.RSI = RSISettings{Period: 5, Oversold: 20, Overbought: 80}
	settings.MACD = MACDSettings{Fast: 3, Slow: 6, Signal: 2}
	settings.Stochastic = StochasticSettings{Period: 4, Smoothing: 3}
	settings.Bollinger = BollingerSettings{Period: 10, StdDev: 1.5}

	suite.Require().NoError(suite.calculator.Apply(settings))

	lower, upper := suite.calculator.RSIThresholds()
	suite.Equal(20.0, lower)
	suite.Equal(80.0, upper)

	table := mocks.TableFromCloses("", mocks.LinearCloses(30, 100, -1), 1)
	frame := suite.calculator.Calculate(table)

	suite.Equal(25, frame.RSI.Defined())
	suite.Equal(21, frame.BollingerMiddle.Defined())
	suite.Equal(27, frame.K.Defined())

	macd, _ := suite.calculator.Registry().Get("MACD")
	suite.Equal(MACD{fastPeriod: 3, slowPeriod: 6, signalPeriod: 2}, *macd.(*MACD))
}

func (suite *SettingsTestSuite) TestApplyRejectsInvalidSettings() {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"rsi bands reversed", func(s *Settings) { s.RSI.Oversold, s.RSI.Overbought = 70, 30 }},
		{"macd fast not below slow", func(s *Settings) { s.MACD.Fast = 30 }},
		{"kd smoothing", func(s *Settings) { s.Stochastic.Smoothing = -1 }},
		{"bollinger width", func(s *Settings) { s.Bollinger.StdDev = 0 }},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			settings := DefaultSettings()
			tc.mutate(&settings)

			err := NewCalculator().Apply(settings)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
		})
	}
}
