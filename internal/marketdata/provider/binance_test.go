package provider

import (
	"context"
	"fmt"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockBinanceAPIClient implements BinanceAPIClient for testing. Each call to
// Do returns the next page.
type mockBinanceAPIClient struct {
	pages    [][]*binance.Kline
	errs     []error
	requests []*mockBinanceKlinesService
}

func (m *mockBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	service := &mockBinanceKlinesService{client: m}
	m.requests = append(m.requests, service)

	return service
}

type mockBinanceKlinesService struct {
	client   *mockBinanceAPIClient
	symbol   string
	interval string
	start    int64
	end      int64
	limit    int
}

func (m *mockBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	m.symbol = symbol

	return m
}

func (m *mockBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	m.interval = interval

	return m
}

func (m *mockBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	m.start = startTime

	return m
}

func (m *mockBinanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	m.end = endTime

	return m
}

func (m *mockBinanceKlinesService) Limit(limit int) BinanceKlinesService {
	m.limit = limit

	return m
}

func (m *mockBinanceKlinesService) Do(_ context.Context) ([]*binance.Kline, error) {
	idx := len(m.client.requests) - 1

	var err error
	if idx < len(m.client.errs) {
		err = m.client.errs[idx]
	}

	if idx < len(m.client.pages) {
		return m.client.pages[idx], err
	}

	return nil, err
}

func kline(day time.Time, closePrice string) *binance.Kline {
	return &binance.Kline{
		OpenTime:         day.UnixMilli(),
		Open:             "100.0",
		High:             "110.0",
		Low:              "90.0",
		Close:            closePrice,
		Volume:           "12.5",
		CloseTime:        day.Add(24*time.Hour - time.Millisecond).UnixMilli(),
		QuoteAssetVolume: "1250.0",
		TradeNum:         7,
	}
}

func klinePage(from time.Time, n int) []*binance.Kline {
	page := make([]*binance.Kline, n)
	for i := range page {
		page[i] = kline(from.AddDate(0, 0, i), "101.0")
	}

	return page
}

type BinanceClientTestSuite struct {
	suite.Suite
	start time.Time
}

func TestBinanceClientSuite(t *testing.T) {
	suite.Run(t, new(BinanceClientTestSuite))
}

func (suite *BinanceClientTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *BinanceClientTestSuite) TestNewBinanceClient() {
	suite.NotNil(NewBinanceClient("", ""))
}

func (suite *BinanceClientTestSuite) TestFetchDailyBars() {
	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{{
		kline(suite.start, "105.5"),
		kline(suite.start.AddDate(0, 0, 1), "106.0"),
	}}}
	client := NewBinanceClientWithAPI(api)

	bars, err := client.FetchDailyBars(context.Background(), "BTCUSDT", suite.start, suite.start.AddDate(0, 0, 30))
	suite.Require().NoError(err)
	suite.Require().Len(bars, 2)
	suite.Require().Len(api.requests, 1)

	request := api.requests[0]
	suite.Equal("BTCUSDT", request.symbol)
	suite.Equal("1d", request.interval)
	suite.Equal(suite.start.UnixMilli(), request.start)
	suite.Equal(klinesPageSize, request.limit)

	suite.Equal(suite.start, bars[0].Date)
	suite.InDelta(100.0, bars[0].Open, 1e-9)
	suite.InDelta(110.0, bars[0].High, 1e-9)
	suite.InDelta(90.0, bars[0].Low, 1e-9)
	suite.InDelta(105.5, bars[0].Close, 1e-9)
	suite.InDelta(12.5, bars[0].Volume, 1e-9)
	suite.InDelta(1250.0, bars[0].TradedValue.Unwrap(), 1e-9)
	suite.InDelta(7.0, bars[0].TransactionCount.Unwrap(), 1e-9)
	suite.True(bars[0].Change.IsNone())
}

func (suite *BinanceClientTestSuite) TestFetchDailyBarsPagination() {
	first := klinePage(suite.start, klinesPageSize)
	secondStart := suite.start.AddDate(0, 0, klinesPageSize)
	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{first, klinePage(secondStart, 3)}}
	client := NewBinanceClientWithAPI(api)

	end := suite.start.AddDate(5, 0, 0)

	bars, err := client.FetchDailyBars(context.Background(), "BTCUSDT", suite.start, end)
	suite.Require().NoError(err)
	suite.Len(bars, klinesPageSize+3)
	suite.Require().Len(api.requests, 2)
	suite.Equal(first[len(first)-1].CloseTime+1, api.requests[1].start)
}

func (suite *BinanceClientTestSuite) TestFetchDailyBarsAPIError() {
	api := &mockBinanceAPIClient{errs: []error{fmt.Errorf("banned")}}
	client := NewBinanceClientWithAPI(api)

	bars, err := client.FetchDailyBars(context.Background(), "BTCUSDT", suite.start, suite.start.AddDate(0, 1, 0))
	suite.Nil(bars)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}

func (suite *BinanceClientTestSuite) TestFetchDailyBarsParseError() {
	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{{kline(suite.start, "not-a-number")}}}
	client := NewBinanceClientWithAPI(api)

	_, err := client.FetchDailyBars(context.Background(), "BTCUSDT", suite.start, suite.start.AddDate(0, 1, 0))
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataParseFailed))
	suite.Contains(err.Error(), "close")
}

func (suite *BinanceClientTestSuite) TestFetchDailyBarsEmpty() {
	client := NewBinanceClientWithAPI(&mockBinanceAPIClient{})

	bars, err := client.FetchDailyBars(context.Background(), "BTCUSDT", suite.start, suite.start.AddDate(0, 1, 0))
	suite.NoError(err)
	suite.Empty(bars)
}
