package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/marketdata/writer"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/mocks"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBDataSourceTestSuite struct {
	suite.Suite
	dir    string
	source DataSource
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()

	source, err := NewDataSource("", logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.source = source
}

func (suite *DuckDBDataSourceTestSuite) TearDownTest() {
	suite.NoError(suite.source.Close())
}

func (suite *DuckDBDataSourceTestSuite) writeFile(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *DuckDBDataSourceTestSuite) day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	suite.Require().NoError(err)

	return t
}

const basicCSV = `date,open,high,low,close,volume
2024-01-02,100,102,99,101,1000
2024-01-03,101,103,100,102,1100
2024-01-04,102,104,101,103,1200
2024-01-05,103,105,102,104,1300
`

func (suite *DuckDBDataSourceTestSuite) TestDetectFormat() {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"bars.csv", FormatCSV, false},
		{"BARS.CSV", FormatCSV, false},
		{"bars.parquet", FormatParquet, false},
		{"bars.pq", FormatParquet, false},
		{"bars.json", "", true},
		{"bars", "", true},
	}

	for _, tc := range tests {
		suite.Run(tc.path, func() {
			format, err := DetectFormat(tc.path)
			if tc.wantErr {
				suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedFormat))

				return
			}

			suite.NoError(err)
			suite.Equal(tc.expected, format)
		})
	}
}

func (suite *DuckDBDataSourceTestSuite) TestReadCSV() {
	path := suite.writeFile("bars.csv", basicCSV)
	suite.Require().NoError(suite.source.Initialize(path))

	bars, err := suite.source.ReadBars(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 4)

	suite.Equal(suite.day("2024-01-02"), bars[0].Date)
	suite.InDelta(100.0, bars[0].Open, 1e-9)
	suite.InDelta(102.0, bars[0].High, 1e-9)
	suite.InDelta(99.0, bars[0].Low, 1e-9)
	suite.InDelta(101.0, bars[0].Close, 1e-9)
	suite.InDelta(1000.0, bars[0].Volume, 1e-9)
	suite.True(bars[0].TradedValue.IsNone())
	suite.True(bars[0].TransactionCount.IsNone())
	suite.True(bars[0].Change.IsNone())

	suite.Equal(suite.day("2024-01-05"), bars[3].Date)
}

func (suite *DuckDBDataSourceTestSuite) TestReadCSVWithOptionalColumnsAndMixedCase() {
	path := suite.writeFile("bars.csv", `Date,Open,High,Low,Close,Volume,Traded_Value,Transaction_Count,Change
2024-01-02,100,102,99,101,1000,101000,50,1.5
2024-01-03,101,103,100,102,1100,,60,-0.5
`)
	suite.Require().NoError(suite.source.Initialize(path))

	bars, err := suite.source.ReadBars(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 2)

	suite.InDelta(101000.0, bars[0].TradedValue.Unwrap(), 1e-9)
	suite.InDelta(50.0, bars[0].TransactionCount.Unwrap(), 1e-9)
	suite.InDelta(1.5, bars[0].Change.Unwrap(), 1e-9)

	suite.True(bars[1].TradedValue.IsNone())
	suite.InDelta(-0.5, bars[1].Change.Unwrap(), 1e-9)
}

func (suite *DuckDBDataSourceTestSuite) TestReadWindow() {
	path := suite.writeFile("bars.csv", basicCSV)
	suite.Require().NoError(suite.source.Initialize(path))

	start := optional.Some(suite.day("2024-01-03"))
	end := optional.Some(suite.day("2024-01-04"))

	bars, err := suite.source.ReadBars(start, end)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 2)
	suite.Equal(suite.day("2024-01-03"), bars[0].Date)
	suite.Equal(suite.day("2024-01-04"), bars[1].Date)

	count, err := suite.source.Count(start, optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(3, count)

	count, err = suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(4, count)
}

func (suite *DuckDBDataSourceTestSuite) TestReadAllStopsEarly() {
	path := suite.writeFile("bars.csv", basicCSV)
	suite.Require().NoError(suite.source.Initialize(path))

	seen := 0

	for bar, err := range suite.source.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		suite.Require().NoError(err)
		suite.False(bar.Date.IsZero())

		seen++
		if seen == 2 {
			break
		}
	}

	suite.Equal(2, seen)
}

func (suite *DuckDBDataSourceTestSuite) TestOrderedByDate() {
	path := suite.writeFile("bars.csv", `date,open,high,low,close,volume
2024-01-04,102,104,101,103,1200
2024-01-02,100,102,99,101,1000
2024-01-03,101,103,100,102,1100
`)
	suite.Require().NoError(suite.source.Initialize(path))

	bars, err := suite.source.ReadBars(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 3)

	for i := 1; i < len(bars); i++ {
		suite.True(bars[i].Date.After(bars[i-1].Date))
	}
}

func (suite *DuckDBDataSourceTestSuite) TestMissingColumn() {
	path := suite.writeFile("bars.csv", `date,open,high,low,close
2024-01-02,100,102,99,101
`)
	err := suite.source.Initialize(path)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingColumn))
	suite.Contains(err.Error(), "volume")
}

func (suite *DuckDBDataSourceTestSuite) TestMissingFile() {
	err := suite.source.Initialize(filepath.Join(suite.dir, "missing.csv"))
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *DuckDBDataSourceTestSuite) TestUnsupportedFormat() {
	path := suite.writeFile("bars.json", "[]")
	err := suite.source.Initialize(path)
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedFormat))
}

func (suite *DuckDBDataSourceTestSuite) TestNotInitialized() {
	_, err := suite.source.ReadBars(optional.None[time.Time](), optional.None[time.Time]())
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))

	_, err = suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}

func (suite *DuckDBDataSourceTestSuite) TestReinitializeReplacesView() {
	first := suite.writeFile("first.csv", basicCSV)
	second := suite.writeFile("second.csv", `date,open,high,low,close,volume
2024-02-01,50,51,49,50,10
`)

	suite.Require().NoError(suite.source.Initialize(first))
	suite.Require().NoError(suite.source.Initialize(second))

	bars, err := suite.source.ReadBars(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 1)
	suite.InDelta(50.0, bars[0].Close, 1e-9)
}

func (suite *DuckDBDataSourceTestSuite) TestParquetRoundTrip() {
	config := mocks.DefaultConfig()
	config.Count = 30
	generated := mocks.NewDataGenerator(3).Generate(config)
	generated[0].TradedValue = optional.Some(12345.0)
	generated[1].Change = optional.Some(-1.25)

	path := filepath.Join(suite.dir, "bars.parquet")
	barWriter := writer.NewDuckDBWriter(path, logger.NewNopLogger())
	suite.Require().NoError(barWriter.Initialize())

	for _, bar := range generated {
		suite.Require().NoError(barWriter.Write("TEST", bar))
	}

	written, err := barWriter.Finalize()
	suite.Require().NoError(err)
	suite.Require().NoError(barWriter.Close())
	suite.Equal(path, written)

	suite.Require().NoError(suite.source.Initialize(path))

	bars, err := suite.source.ReadBars(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, len(generated))

	for i := range generated {
		suite.Equal(generated[i].Date, bars[i].Date)
		suite.InDelta(generated[i].Close, bars[i].Close, 1e-9)
		suite.InDelta(generated[i].Volume, bars[i].Volume, 1e-9)
	}

	suite.InDelta(12345.0, bars[0].TradedValue.Unwrap(), 1e-9)
	suite.InDelta(-1.25, bars[1].Change.Unwrap(), 1e-9)
	suite.True(bars[2].TransactionCount.IsNone())

	_, err = types.NewBarTable("TEST", bars)
	suite.NoError(err)
}
