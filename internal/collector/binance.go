package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"CryptoLens/internal/model"
)

const (
	DefaultBinanceURL = "https://api.binance.com"
	// DefaultPageLimit is the largest page the klines endpoint serves.
	DefaultPageLimit = 1000
	DefaultPageDelay = 100 * time.Millisecond
)

// DefaultHistoryStart is where history fetching begins unless configured.
var DefaultHistoryStart = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)

// BinanceFetcher implements Fetcher using the public Binance klines endpoint,
// walking forward page by page from Start until the history is exhausted.
type BinanceFetcher struct {
	BaseURL   string
	Start     time.Time
	PageLimit int
	PageDelay time.Duration
	Client    *http.Client

	now func() time.Time
}

// NewBinanceFetcher creates a fetcher with optional proxy support.
func NewBinanceFetcher(baseURL, proxyURL string) *BinanceFetcher {
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BinanceFetcher{
		BaseURL:   baseURL,
		Start:     DefaultHistoryStart,
		PageLimit: DefaultPageLimit,
		PageDelay: DefaultPageDelay,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		now: time.Now,
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) FetchCandles(ctx context.Context, symbol string, tf model.TimeFrame) ([]model.Candle, error) {
	now := time.Now
	if f.now != nil {
		now = f.now
	}
	limit := f.PageLimit
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	var candles []model.Candle
	cursor := f.Start.UnixMilli()
	for cursor <= now().UnixMilli() {
		page, err := f.fetchPage(ctx, symbol, tf, cursor, limit)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, k := range page {
			candles = append(candles, k.candle())
		}
		cursor = page[len(page)-1].openTime + 1

		if f.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.PageDelay):
			}
		}
	}
	if candles == nil {
		candles = []model.Candle{}
	}
	return candles, nil
}

// kline is one decoded row of the klines response.
type kline struct {
	openTime               int64
	open, high, low, close decimal.Decimal
}

func (k kline) candle() model.Candle {
	return model.Candle{
		Time:  k.openTime / 1000,
		Open:  k.open.InexactFloat64(),
		High:  k.high.InexactFloat64(),
		Low:   k.low.InexactFloat64(),
		Close: k.close.InexactFloat64(),
	}
}

func (f *BinanceFetcher) fetchPage(ctx context.Context, symbol string, tf model.TimeFrame, startTime int64, limit int) ([]kline, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", tf.String())
	q.Set("limit", strconv.Itoa(limit))
	q.Set("startTime", strconv.FormatInt(startTime, 10))
	u := f.BaseURL + "/api/v3/klines?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("binance decode: %w", err)
	}

	klines := make([]kline, 0, len(rows))
	for i, row := range rows {
		k, err := decodeKline(row)
		if err != nil {
			return nil, fmt.Errorf("binance decode row %d: %w", i, err)
		}
		klines = append(klines, k)
	}
	return klines, nil
}

// decodeKline reads [openTime, "open", "high", "low", "close", ...].
func decodeKline(row []json.RawMessage) (kline, error) {
	var k kline
	if len(row) < 5 {
		return k, fmt.Errorf("expected at least 5 fields, got %d", len(row))
	}
	if err := json.Unmarshal(row[0], &k.openTime); err != nil {
		return k, fmt.Errorf("open time: %w", err)
	}
	prices := []*decimal.Decimal{&k.open, &k.high, &k.low, &k.close}
	for i, dst := range prices {
		if err := json.Unmarshal(row[i+1], dst); err != nil {
			return k, fmt.Errorf("price field %d: %w", i+1, err)
		}
	}
	return k, nil
}
