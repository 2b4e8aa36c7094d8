package server

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoLens/internal/board"
	"CryptoLens/internal/calculator"
	"CryptoLens/internal/collector"
	"CryptoLens/internal/model"
	"CryptoLens/internal/observe"
	"CryptoLens/internal/scheduler"
)

type fixture struct {
	srv   *httptest.Server
	board *board.Board
	sched *scheduler.Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := observe.NewMetrics(reg)

	b := board.New("BTCUSDT", "ETHUSDT")
	col := collector.NewCollector(&collector.MockFetcher{Price: 100, Count: 400}, nil, metrics)
	s := scheduler.NewScheduler(col, b, model.TimeFrame1d, model.DefaultIndicatorSettings())

	srv := httptest.NewServer(NewHandler(context.Background(), b, s, reg))
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, board: b, sched: s}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestReadyz_WaitsForCharts(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, f.sched.RefreshAll(context.Background()))
	resp, body := f.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"SERVING"}`, string(body))

	resp, _ = f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetChart(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/api/charts/BTCUSDT", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/charts/DOGEUSDT", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, f.sched.RefreshAll(context.Background()))

	resp, body := f.do(t, http.MethodGet, "/api/charts/BTCUSDT", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chart model.Chart
	require.NoError(t, json.Unmarshal(body, &chart))
	assert.Equal(t, "BTCUSDT", chart.Symbol)
	assert.Len(t, chart.Candles, 400)
	require.NotNil(t, chart.Risk)
	assert.Len(t, chart.Risk.Points, 27)

	resp, body = f.do(t, http.MethodGet, "/api/charts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var charts []model.Chart
	require.NoError(t, json.Unmarshal(body, &charts))
	assert.Len(t, charts, 2)
}

func TestPutTimeFrame(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPut, "/api/charts/ETHUSDT/timeframe", `{"timeframe":"15m"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var chart model.Chart
	require.NoError(t, json.Unmarshal(body, &chart))
	assert.Equal(t, model.TimeFrame15m, chart.TimeFrame)
	_, hasMA20 := chart.Overlay("MA20")
	assert.True(t, hasMA20)

	tests := []struct {
		path, body string
		status     int
	}{
		{"/api/charts/ETHUSDT/timeframe", `{"timeframe":"2d"}`, http.StatusBadRequest},
		{"/api/charts/ETHUSDT/timeframe", `not json`, http.StatusBadRequest},
		{"/api/charts/DOGEUSDT/timeframe", `{"timeframe":"1h"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, _ := f.do(t, http.MethodPut, tt.path, tt.body)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path+" "+tt.body)
	}
}

func TestSettings(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.IndicatorSettings
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, model.DefaultIndicatorSettings(), got)

	full := `{"show_ma20":false,"show_ma50":true,"show_ma100":false,"show_ma200":false,"show_bull_band":false,"show_risk":false}`
	resp, body = f.do(t, http.MethodPut, "/api/settings", full)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, model.IndicatorSettings{ShowMA50: true}, got)

	chart, err := f.board.Chart("BTCUSDT")
	require.NoError(t, err)
	require.NotNil(t, chart)
	require.Len(t, chart.Overlays, 1)
	assert.Equal(t, "MA50", chart.Overlays[0].Name)

	resp, _ = f.do(t, http.MethodPut, "/api/settings", `{"show_ma20":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = f.do(t, http.MethodPut, "/api/settings", `{"show_everything":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPricesAndBands(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.board.SetPrice(model.PriceTick{Symbol: "BTCUSDT", Price: 65000, Time: 1}))

	resp, body := f.do(t, http.MethodGet, "/api/prices", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prices map[string]model.PriceTick
	require.NoError(t, json.Unmarshal(body, &prices))
	assert.Equal(t, 65000.0, prices["BTCUSDT"].Price)

	resp, body = f.do(t, http.MethodGet, "/api/risk/bands", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bands []calculator.RiskBand
	require.NoError(t, json.Unmarshal(body, &bands))
	assert.Equal(t, calculator.RiskBands(), bands)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sched.RefreshAll(context.Background()))

	resp, body := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cryptolens_fetch_total")
	assert.Contains(t, string(body), `series="MA200"`)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodDelete, "/api/settings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"value": math.NaN()})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to encode response")
}
