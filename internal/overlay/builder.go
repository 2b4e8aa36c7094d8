// Package overlay assembles a model.Chart from raw candles: moving average
// lines, the bull market support band, the risk oscillator and range stats.
package overlay

import (
	"time"

	"CryptoLens/internal/calculator"
	"CryptoLens/internal/model"
	"CryptoLens/internal/observe"
)

// Overlay names as they appear on the chart.
const (
	NameMA20    = "MA20"
	NameMA50    = "MA50"
	NameMA100   = "MA100"
	NameMA200   = "MA200"
	NameBand20W = "20W SMA"
	NameBand21W = "21W EMA"
	NameRisk    = "Risk"
)

const (
	maLineWidth   = 2
	bandLineWidth = 3
)

// MovingAverages defines the price overlays in drawing order.
var MovingAverages = []struct {
	Name    string
	Period  int
	Color   string
	Visible func(tf model.TimeFrame, s model.IndicatorSettings) bool
}{
	{NameMA20, 20, "#2962FF", func(tf model.TimeFrame, s model.IndicatorSettings) bool { return s.ShowMA20 && !tf.BullBandEligible() }},
	{NameMA50, 50, "#2E7D32", func(_ model.TimeFrame, s model.IndicatorSettings) bool { return s.ShowMA50 }},
	{NameMA100, 100, "#ED6C02", func(_ model.TimeFrame, s model.IndicatorSettings) bool { return s.ShowMA100 }},
	{NameMA200, 200, "#D32F2F", func(_ model.TimeFrame, s model.IndicatorSettings) bool { return s.ShowMA200 }},
}

// BullBand defines the two weekly lines of the bull market support band.
var BullBand = []struct {
	Name   string
	Period int
	Color  string
	Calc   func([]model.Candle, int) []model.IndicatorPoint
}{
	{NameBand20W, 20, "rgb(255, 82, 82)", calculator.SMA},
	{NameBand21W, 21, "rgb(76, 175, 80)", calculator.EMA},
}

// Builder turns candle series into charts, reporting every derived series
// to its hook.
type Builder struct {
	hook observe.Hook
	now  func() time.Time
}

func NewBuilder(hook observe.Hook) *Builder {
	if hook == nil {
		hook = observe.Nop{}
	}
	return &Builder{hook: hook, now: time.Now}
}

// Build computes every visible overlay for the series. It never fails:
// short or empty series produce short or empty overlays.
func (b *Builder) Build(symbol string, tf model.TimeFrame, candles []model.Candle, settings model.IndicatorSettings) *model.Chart {
	sorted := calculator.SortCandles(candles)
	own := make([]model.Candle, len(sorted))
	copy(own, sorted)

	chart := &model.Chart{
		Symbol:     symbol,
		TimeFrame:  tf,
		Candles:    own,
		Overlays:   []model.Overlay{},
		Stats:      calculator.Stats(own),
		Settings:   settings,
		ComputedAt: b.now().UTC(),
	}

	for _, ma := range MovingAverages {
		if !ma.Visible(tf, settings) {
			continue
		}
		points := b.timed(ma.Name, len(own), func() []model.IndicatorPoint {
			return calculator.SMA(own, ma.Period)
		})
		chart.Overlays = append(chart.Overlays, model.Overlay{
			Name:      ma.Name,
			Color:     ma.Color,
			LineWidth: maLineWidth,
			Points:    points,
		})
	}

	if settings.ShowBullBand && tf.BullBandEligible() {
		weekly := calculator.ResampleWeekly(own)
		for _, line := range BullBand {
			points := b.timed(line.Name, len(weekly), func() []model.IndicatorPoint {
				return line.Calc(weekly, line.Period)
			})
			chart.Overlays = append(chart.Overlays, model.Overlay{
				Name:      line.Name,
				Color:     line.Color,
				LineWidth: bandLineWidth,
				Points:    points,
			})
		}
	}

	if settings.ShowRisk {
		chart.Risk = b.risk(symbol, own)
	}
	return chart
}

func (b *Builder) risk(symbol string, candles []model.Candle) *model.RiskSeries {
	start := time.Now()
	points := calculator.ComputeRisk(candles)
	b.hook.SeriesComputed(NameRisk, len(candles), len(points), time.Since(start))

	series := &model.RiskSeries{
		Points:   points,
		Degraded: calculator.RiskDegraded(len(candles)),
	}
	if series.Degraded {
		b.hook.RiskDegraded(symbol, len(candles))
	}
	if len(points) > 0 {
		current := points[len(points)-1].Value
		series.Current = current
		series.Level = calculator.RiskLevel(current)
		series.Severity = calculator.RiskSeverity(current)
		series.Color = calculator.RiskColor(current)
	}
	return series
}

func (b *Builder) timed(name string, inputLen int, compute func() []model.IndicatorPoint) []model.IndicatorPoint {
	start := time.Now()
	points := compute()
	b.hook.SeriesComputed(name, inputLen, len(points), time.Since(start))
	return points
}
