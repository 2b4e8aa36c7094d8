package collector

import (
	"context"
	"fmt"
	"time"

	"CryptoLens/internal/model"
	"CryptoLens/internal/observe"
	"CryptoLens/internal/overlay"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Count   int
	Candles []model.Candle
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, tf model.TimeFrame) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		out := make([]model.Candle, len(m.Candles))
		copy(out, m.Candles)
		return out, nil
	}
	return generateMockCandles(m.Price, m.Count, tf.Duration(), time.Now()), nil
}

func generateMockCandles(basePrice float64, count int, step time.Duration, end time.Time) []model.Candle {
	if step <= 0 {
		step = 24 * time.Hour
	}
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		candles[i] = model.Candle{
			Time:  end.Add(-time.Duration(count-i) * step).Unix(),
			Open:  p * 0.999,
			High:  p * 1.005,
			Low:   p * 0.995,
			Close: p,
		}
	}
	return candles
}

// Collector fetches candles for a symbol and turns them into a chart.
type Collector struct {
	Fetcher Fetcher
	Builder *overlay.Builder
	Hook    observe.Hook
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, builder *overlay.Builder, hook observe.Hook) *Collector {
	if hook == nil {
		hook = observe.Nop{}
	}
	if builder == nil {
		builder = overlay.NewBuilder(hook)
	}
	return &Collector{Fetcher: fetcher, Builder: builder, Hook: hook}
}

// Collect fetches the history and builds the chart. A failed fetch still
// yields a chart, built from an empty series with Err set, together with
// the error.
func (c *Collector) Collect(ctx context.Context, symbol string, tf model.TimeFrame, settings model.IndicatorSettings) (*model.Chart, error) {
	start := time.Now()
	candles, err := c.Fetcher.FetchCandles(ctx, symbol, tf)
	c.Hook.FetchCompleted(symbol, tf, len(candles), time.Since(start), err)
	if err != nil {
		chart := c.Builder.Build(symbol, tf, nil, settings)
		chart.Err = err.Error()
		return chart, fmt.Errorf("fetch %s %s from %s: %w", symbol, tf, c.Fetcher.Name(), err)
	}
	return c.Builder.Build(symbol, tf, candles, settings), nil
}
