package report

import (
	"strings"
	"testing"
	"time"

	"CryptoLens/internal/model"
)

func TestFormatChart(t *testing.T) {
	chart := &model.Chart{
		Symbol:    "BTCUSDT",
		TimeFrame: model.TimeFrame1d,
		Candles:   []model.Candle{{Time: 1, Close: 110}},
		Overlays: []model.Overlay{
			{Name: "MA50", Points: []model.IndicatorPoint{{Time: 1, Value: 100}}},
			{Name: "MA200", Points: []model.IndicatorPoint{}},
		},
		Risk:       &model.RiskSeries{Points: []model.RiskPoint{{Value: 0.72}}, Current: 0.72, Level: "High"},
		Stats:      model.PriceStats{LastClose: 110, High: 120, Low: 100, Position: 0.5},
		ComputedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	out := FormatChart(chart)
	for _, want := range []string{
		"BTCUSDT 1d | 2024-05-01T12:00:00Z",
		"Last close: 110.00",
		"position 50%",
		"MA50: 100.00 (+10.0%)",
		"MA200: n/a",
		"Risk: 0.720 High",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatChart_Risk(t *testing.T) {
	base := model.Chart{Symbol: "ETHUSDT", Candles: []model.Candle{{Time: 1, Close: 1}}}

	tests := []struct {
		name string
		risk *model.RiskSeries
		want string
	}{
		{"hidden", nil, "Risk: hidden"},
		{"empty", &model.RiskSeries{}, "Risk: unavailable"},
		{"degraded", &model.RiskSeries{Points: make([]model.RiskPoint, 3), Degraded: true}, "Risk: degraded"},
	}
	for _, tt := range tests {
		c := base
		c.Risk = tt.risk
		if out := FormatChart(&c); !strings.Contains(out, tt.want) {
			t.Errorf("%s: expected %q in:\n%s", tt.name, tt.want, out)
		}
	}
}

func TestFormatChart_FetchError(t *testing.T) {
	out := FormatChart(&model.Chart{Symbol: "BTCUSDT", Err: "status 503"})
	if !strings.Contains(out, "fetch failed: status 503") || !strings.Contains(out, "no candles") {
		t.Errorf("unexpected report:\n%s", out)
	}
}

func TestFormatPrices(t *testing.T) {
	out := FormatPrices([]string{"BTCUSDT", "ETHUSDT"}, map[string]model.PriceTick{
		"BTCUSDT": {Symbol: "BTCUSDT", Price: 65000.5, Time: 0},
	})
	if !strings.Contains(out, "BTCUSDT: 65000.50 @ 00:00:00") {
		t.Errorf("missing BTC price:\n%s", out)
	}
	if !strings.Contains(out, "ETHUSDT: -") {
		t.Errorf("missing ETH placeholder:\n%s", out)
	}
}
