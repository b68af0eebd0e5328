package indicator

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/mocks"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StochasticTestSuite struct {
	suite.Suite
}

func TestStochasticSuite(t *testing.T) {
	suite.Run(t, new(StochasticTestSuite))
}

// rangeBar builds a bar on day d with the given high, low and close.
func rangeBar(d int, high, low, closePrice float64) types.Bar {
	return types.Bar{
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d),
		Open:   closePrice,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: 100,
	}
}

func (suite *StochasticTestSuite) table(bars []types.Bar) types.BarTable {
	table, err := types.NewBarTable("", bars)
	suite.Require().NoError(err)

	return table
}

func (suite *StochasticTestSuite) TestDefaults() {
	kd := NewStochastic()
	suite.Equal(9, kd.period)
	suite.Equal(2.0, kd.smoothing)
	suite.Equal(8, kd.WarmUp())
	suite.Equal(types.IndicatorTypeStochastic, kd.Name())
}

func (suite *StochasticTestSuite) TestConfig() {
	kd := NewStochastic()
	suite.NoError(kd.Config(5, 3.0))
	suite.Equal(5, kd.period)
	suite.Equal(3.0, kd.smoothing)

	suite.True(errors.HasCode(kd.Config(), errors.ErrCodeMissingParameter))
	suite.True(errors.HasCode(kd.Config(5, 3), errors.ErrCodeInvalidType))
	suite.True(errors.HasCode(kd.Config(5, -1.0), errors.ErrCodeInvalidParameter))
}

func (suite *StochasticTestSuite) TestFirstValueSeedsKAndD() {
	bars := make([]types.Bar, 0, 9)
	for i := 0; i < 9; i++ {
		bars = append(bars, rangeBar(i, 20, 10, 15))
	}

	result := NewStochastic().Calculate(suite.table(bars))
	suite.True(result.K[7].IsNone())
	suite.Equal(50.0, result.K[8].Unwrap())
	suite.Equal(50.0, result.D[8].Unwrap())
}

func (suite *StochasticTestSuite) TestSmoothing() {
	bars := make([]types.Bar, 0, 10)
	for i := 0; i < 9; i++ {
		bars = append(bars, rangeBar(i, 20, 10, 15))
	}

	bars = append(bars, rangeBar(9, 20, 10, 20))

	result := NewStochastic().Calculate(suite.table(bars))
	// K = 2/3 * 50 + 1/3 * 100, D = 2/3 * 50 + 1/3 * K
	k := 50*2.0/3 + 100.0/3
	suite.InDelta(k, result.K[9].Unwrap(), 1e-9)
	suite.InDelta(50*2.0/3+k/3, result.D[9].Unwrap(), 1e-9)
}

func (suite *StochasticTestSuite) TestFlatSeriesIsUndefined() {
	table := mocks.TableFromCloses("", mocks.LinearCloses(30, 100, 0), 0)

	result := NewStochastic().Calculate(table)
	suite.Equal(0, result.K.Defined())
	suite.Equal(0, result.D.Defined())
}

func (suite *StochasticTestSuite) TestFlatWindowCarriesState() {
	bars := make([]types.Bar, 0, 20)
	for i := 0; i < 10; i++ {
		bars = append(bars, rangeBar(i, 20+float64(i), 10, 15+float64(i)))
	}

	// nine identical bars make the window ending at index 18 flat
	for i := 10; i < 19; i++ {
		bars = append(bars, rangeBar(i, 25, 25, 25))
	}

	bars = append(bars, rangeBar(19, 30, 20, 28))

	kd := NewStochastic()
	table := suite.table(bars)
	rsv := kd.RSV(table)
	result := kd.Calculate(table)

	suite.True(rsv[18].IsNone())
	suite.True(result.K[18].IsNone())
	suite.True(result.D[18].IsNone())
	suite.True(result.K[17].IsSome())

	// the carried K keeps decaying over the undefined bar
	expected := (4*result.K[17].Unwrap() + 3*rsv[19].Unwrap()) / 7
	suite.InDelta(expected, result.K[19].Unwrap(), 1e-9)
}

func (suite *StochasticTestSuite) TestRange() {
	table := mocks.NewDataGenerator(5).GenerateTable(mocks.DefaultConfig())
	result := NewStochastic().Calculate(table)

	for i := range result.K {
		if result.K[i].IsNone() {
			continue
		}

		suite.GreaterOrEqual(result.K[i].Unwrap(), 0.0)
		suite.LessOrEqual(result.K[i].Unwrap(), 100.0)
		suite.GreaterOrEqual(result.D[i].Unwrap(), 0.0)
		suite.LessOrEqual(result.D[i].Unwrap(), 100.0)
	}
}
