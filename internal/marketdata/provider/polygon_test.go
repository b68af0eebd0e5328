package provider

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator PolygonAggsIterator
	params   *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.params = params

	return m.iterator
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++

		return true
	}

	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}

	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

type PolygonClientTestSuite struct {
	suite.Suite
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) TestNewPolygonClientEmptyApiKey() {
	client, err := NewPolygonClient("")
	suite.Nil(client)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *PolygonClientTestSuite) TestNewPolygonClientValidApiKey() {
	client, err := NewPolygonClient("test-key")
	suite.NoError(err)
	suite.NotNil(client)
}

func (suite *PolygonClientTestSuite) TestFetchDailyBars() {
	aggs := []models.Agg{
		{
			// 05:00 UTC is midnight in New York
			Timestamp:    models.Millis(time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)),
			Open:         100.0,
			High:         101.0,
			Low:          99.0,
			Close:        100.5,
			Volume:       1000,
			VWAP:         100.2,
			Transactions: 12,
		},
		{
			Timestamp: models.Millis(time.Date(2024, 1, 3, 5, 0, 0, 0, time.UTC)),
			Open:      100.5,
			High:      102.0,
			Low:       100.0,
			Close:     101.5,
			Volume:    1500,
		},
	}

	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: aggs}}
	client := NewPolygonClientWithAPI(api)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	bars, err := client.FetchDailyBars(context.Background(), "SPY", start, end)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 2)

	suite.Equal("SPY", api.params.Ticker)
	suite.Equal(1, api.params.Multiplier)
	suite.Equal(models.Day, api.params.Timespan)

	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	suite.InDelta(100.0, bars[0].Open, 1e-9)
	suite.InDelta(101.0, bars[0].High, 1e-9)
	suite.InDelta(99.0, bars[0].Low, 1e-9)
	suite.InDelta(100.5, bars[0].Close, 1e-9)
	suite.InDelta(1000.0, bars[0].Volume, 1e-9)
	suite.InDelta(100200.0, bars[0].TradedValue.Unwrap(), 1e-6)
	suite.InDelta(12.0, bars[0].TransactionCount.Unwrap(), 1e-9)
	suite.True(bars[0].Change.IsNone())

	suite.True(bars[1].TradedValue.IsNone())
	suite.True(bars[1].TransactionCount.IsNone())
}

func (suite *PolygonClientTestSuite) TestFetchDailyBarsEmpty() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{}})

	bars, err := client.FetchDailyBars(context.Background(), "SPY", time.Now().AddDate(0, -1, 0), time.Now())
	suite.NoError(err)
	suite.Empty(bars)
}

func (suite *PolygonClientTestSuite) TestFetchDailyBarsIteratorError() {
	iterator := &mockPolygonIterator{err: fmt.Errorf("rate limited")}
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: iterator})

	bars, err := client.FetchDailyBars(context.Background(), "SPY", time.Now().AddDate(0, -1, 0), time.Now())
	suite.Nil(bars)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
	suite.Contains(err.Error(), "rate limited")
}

func (suite *PolygonClientTestSuite) TestFetchDailyBarsCancelled() {
	iterator := &mockPolygonIterator{aggs: []models.Agg{{Close: 1}, {Close: 2}}}
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: iterator})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchDailyBars(ctx, "SPY", time.Now().AddDate(0, -1, 0), time.Now())
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}
