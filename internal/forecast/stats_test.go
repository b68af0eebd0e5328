package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type StatsTestSuite struct {
	suite.Suite
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsTestSuite))
}

func (suite *StatsTestSuite) TestSlope() {
	suite.InDelta(1.0, Slope([]float64{1, 2, 3}), 1e-12)
	suite.InDelta(-0.5, Slope([]float64{10, 9.5, 9, 8.5}), 1e-12)
	suite.Equal(0.0, Slope([]float64{4, 4, 4}))
	suite.Equal(0.0, Slope([]float64{4}))
	suite.Equal(0.0, Slope(nil))
}

func (suite *StatsTestSuite) TestReturns() {
	suite.Nil(Returns([]float64{100}))
	suite.InDeltaSlice([]float64{0.1, -0.1}, Returns([]float64{100, 110, 99}), 1e-12)
	suite.Equal([]float64{0, 0.5}, Returns([]float64{0, 2, 3}))
}

func (suite *StatsTestSuite) TestAnnualizedVolatility() {
	suite.InDelta(0.1*math.Sqrt(252), AnnualizedVolatility([]float64{100, 110, 99}), 1e-9)
	suite.Equal(0.0, AnnualizedVolatility([]float64{100}))
	suite.Equal(0.0, AnnualizedVolatility([]float64{5, 5, 5, 5}))
}
