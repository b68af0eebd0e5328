package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// klinesPageSize is the maximum number of klines Binance returns per request.
const klinesPageSize = 1000

// BinanceKlinesService is the builder of a klines request.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient is the part of the Binance client the provider calls.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceAPI struct {
	client *binance.Client
}

func (b *binanceAPI) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesService{service: b.client.NewKlinesService()}
}

type binanceKlinesService struct {
	service *binance.KlinesService
}

func (s *binanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.service.Symbol(symbol)

	return s
}

func (s *binanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.service.Interval(interval)

	return s
}

func (s *binanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.service.StartTime(startTime)

	return s
}

func (s *binanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.service.EndTime(endTime)

	return s
}

func (s *binanceKlinesService) Limit(limit int) BinanceKlinesService {
	s.service.Limit(limit)

	return s
}

func (s *binanceKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

type BinanceClient struct {
	api BinanceAPIClient
}

// NewBinanceClient creates a client for the public kline endpoint. Keys are
// optional for market data.
func NewBinanceClient(apiKey, secretKey string) *BinanceClient {
	return NewBinanceClientWithAPI(&binanceAPI{client: binance.NewClient(apiKey, secretKey)})
}

// NewBinanceClientWithAPI creates a client over an existing API implementation.
func NewBinanceClientWithAPI(api BinanceAPIClient) *BinanceClient {
	return &BinanceClient{api: api}
}

// FetchDailyBars implements Provider with 1d klines, paging by close time.
func (c *BinanceClient) FetchDailyBars(ctx context.Context, symbol string, start time.Time, end time.Time) ([]types.Bar, error) {
	endTimeMillis := end.UnixMilli()
	currentStartTime := start.UnixMilli()

	var bars []types.Bar

	for currentStartTime <= endTimeMillis {
		klines, err := c.api.NewKlinesService().
			Symbol(symbol).
			Interval("1d").
			StartTime(currentStartTime).
			EndTime(endTimeMillis).
			Limit(klinesPageSize).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines of %s from Binance", symbol)
		}

		for _, k := range klines {
			bar, err := barFromKline(k)
			if err != nil {
				return nil, err
			}

			bars = append(bars, bar)
		}

		if len(klines) < klinesPageSize {
			break
		}

		// the next page starts right after the last close to avoid duplicates
		currentStartTime = klines[len(klines)-1].CloseTime + 1
	}

	return bars, nil
}

// barFromKline converts a Binance kline to a bar. Quote asset volume is the
// turnover and the trade number the transaction count.
func barFromKline(k *binance.Kline) (types.Bar, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"open", k.Open},
		{"high", k.High},
		{"low", k.Low},
		{"close", k.Close},
		{"volume", k.Volume},
		{"quote asset volume", k.QuoteAssetVolume},
	}

	parsed := make([]float64, len(fields))

	for i, field := range fields {
		v, err := strconv.ParseFloat(field.value, 64)
		if err != nil {
			return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline %s %q", field.name, field.value)
		}

		parsed[i] = v
	}

	return types.Bar{
		Date:             types.Day(time.UnixMilli(k.OpenTime).UTC()),
		Open:             parsed[0],
		High:             parsed[1],
		Low:              parsed[2],
		Close:            parsed[3],
		Volume:           parsed[4],
		TradedValue:      optional.Some(parsed[5]),
		TransactionCount: optional.Some(float64(k.TradeNum)),
		Change:           optional.None[float64](),
	}, nil
}
