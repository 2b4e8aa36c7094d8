package collector

import (
	"context"

	"CryptoLens/internal/model"
)

// Fetcher defines the interface for fetching historical candles.
type Fetcher interface {
	// FetchCandles returns the full available history of symbol at the given
	// timeframe. Ordering is not guaranteed.
	FetchCandles(ctx context.Context, symbol string, tf model.TimeFrame) ([]model.Candle, error)
	Name() string
}
