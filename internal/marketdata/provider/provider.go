package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-insight/internal/config"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

type Provider interface {
	// FetchDailyBars downloads the daily bars of symbol between start and end, inclusive.
	// Bars come back in the order the remote API returns them; callers normalise.
	// The context can be used to cancel the download operation.
	// example:
	// FetchDailyBars(ctx, "AAPL", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	FetchDailyBars(ctx context.Context, symbol string, start time.Time, end time.Time) ([]types.Bar, error)
}

// NewProvider creates the remote market data provider named by kind.
// The file provider has no remote counterpart and is rejected.
func NewProvider(kind config.Provider, secrets config.Secrets) (Provider, error) {
	switch kind {
	case config.ProviderPolygon:
		client, err := NewPolygonClient(secrets.PolygonAPIKey)
		if err != nil {
			return nil, err
		}

		return client, nil
	case config.ProviderBinance:
		return NewBinanceClient(secrets.BinanceAPIKey, secrets.BinanceSecretKey), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", kind)
	}
}
