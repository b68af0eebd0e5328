package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/mocks"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSIUnitTestSuite struct {
	suite.Suite
}

func TestRSIUnitSuite(t *testing.T) {
	suite.Run(t, new(RSIUnitTestSuite))
}

func (suite *RSIUnitTestSuite) TestNewRSI() {
	rsi := NewRSI()
	suite.Equal(14, rsi.period)
	suite.Equal(14, rsi.WarmUp())

	lower, upper := rsi.Thresholds()
	suite.Equal(30.0, lower)
	suite.Equal(70.0, upper)
}

func (suite *RSIUnitTestSuite) TestName() {
	suite.Equal(types.IndicatorTypeRSI, NewRSI().Name())
}

func (suite *RSIUnitTestSuite) TestConfig() {
	rsi := NewRSI()
	suite.NoError(rsi.Config(10, 20.0, 80.0))
	suite.Equal(10, rsi.period)

	lower, upper := rsi.Thresholds()
	suite.Equal(20.0, lower)
	suite.Equal(80.0, upper)
}

func (suite *RSIUnitTestSuite) TestConfigInvalid() {
	rsi := NewRSI()

	suite.True(errors.HasCode(rsi.Config(), errors.ErrCodeMissingParameter))
	suite.True(errors.HasCode(rsi.Config("14"), errors.ErrCodeInvalidType))
	suite.True(errors.HasCode(rsi.Config(14, 30), errors.ErrCodeInvalidType))
	suite.True(errors.HasCode(rsi.Config(14, 70.0, 30.0), errors.ErrCodeInvalidParameter))

	// failed configuration leaves the defaults untouched
	suite.Equal(14, rsi.period)
}

func (suite *RSIUnitTestSuite) TestCalculateKnownValue() {
	// deltas alternate +2, -1: avg gain 1, avg loss 0.5, RS 2
	closes := []float64{100}
	for i := 0; i < 14; i++ {
		step := 2.0
		if i%2 == 1 {
			step = -1
		}

		closes = append(closes, closes[len(closes)-1]+step)
	}

	out := NewRSI().Calculate(closes)
	suite.Len(out, 15)
	suite.True(out[13].IsNone())
	suite.InDelta(100-100.0/3, out[14].Unwrap(), 1e-9)
}

func (suite *RSIUnitTestSuite) TestUndefinedWithoutLosses() {
	out := NewRSI().Calculate(mocks.LinearCloses(30, 100, 1))
	suite.Equal(0, out.Defined())
}

func (suite *RSIUnitTestSuite) TestZeroWithoutGains() {
	out := NewRSI().Calculate(mocks.LinearCloses(30, 100, -1))
	suite.Equal(16, out.Defined())
	suite.Equal(0.0, out[29].Unwrap())
}

func (suite *RSIUnitTestSuite) TestRange() {
	table := mocks.NewDataGenerator(3).GenerateTable(mocks.DefaultConfig())

	for i, v := range NewRSI().Calculate(table.Closes()) {
		if v.IsNone() {
			continue
		}

		suite.GreaterOrEqual(v.Unwrap(), 0.0, "index %d", i)
		suite.LessOrEqual(v.Unwrap(), 100.0, "index %d", i)
	}
}
