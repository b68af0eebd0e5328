package provider

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// PolygonAggsIterator is the part of the polygon aggregate iterator the client reads.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the part of the polygon REST client the provider calls.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPI struct {
	client *polygon.Client
}

func (p *polygonAPI) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return p.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	api PolygonAPIClient
}

func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonAPI{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a client over an existing API implementation.
func NewPolygonClientWithAPI(api PolygonAPIClient) *PolygonClient {
	return &PolygonClient{api: api}
}

// FetchDailyBars implements Provider with one-day aggregates.
func (c *PolygonClient) FetchDailyBars(ctx context.Context, symbol string, start time.Time, end time.Time) ([]types.Bar, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := c.api.ListAggs(ctx, params)

	var bars []types.Bar

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "download of %s cancelled", symbol)
		}

		bars = append(bars, barFromAgg(iter.Item()))
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates of %s", symbol)
	}

	return bars, nil
}

// barFromAgg maps a polygon aggregate onto a bar. Turnover is approximated
// by VWAP times volume when polygon reports a VWAP.
func barFromAgg(agg models.Agg) types.Bar {
	bar := types.Bar{
		Date:             types.Day(time.Time(agg.Timestamp)),
		Open:             agg.Open,
		High:             agg.High,
		Low:              agg.Low,
		Close:            agg.Close,
		Volume:           agg.Volume,
		TradedValue:      optional.None[float64](),
		TransactionCount: optional.None[float64](),
		Change:           optional.None[float64](),
	}

	if agg.VWAP > 0 {
		bar.TradedValue = optional.Some(agg.VWAP * agg.Volume)
	}

	if agg.Transactions > 0 {
		bar.TransactionCount = optional.Some(float64(agg.Transactions))
	}

	return bar
}
