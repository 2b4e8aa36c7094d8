// Package report renders charts as short plain-text summaries for logs.
package report

import (
	"fmt"
	"strings"
	"time"

	"CryptoLens/internal/model"
)

// FormatChart summarises a chart: last close, range position, the latest
// value of each overlay and the current risk reading.
func FormatChart(chart *model.Chart) string {
	if chart == nil {
		return "📊 no chart\n"
	}
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 %s %s | %s\n", chart.Symbol, chart.TimeFrame, chart.ComputedAt.UTC().Format(time.RFC3339)))
	if chart.Err != "" {
		b.WriteString(fmt.Sprintf("⚠️ fetch failed: %s\n", chart.Err))
	}
	if len(chart.Candles) == 0 {
		b.WriteString("no candles\n")
		return b.String()
	}

	s := chart.Stats
	b.WriteString(fmt.Sprintf("Last close: %.2f (%d candles)\n", s.LastClose, len(chart.Candles)))
	b.WriteString(fmt.Sprintf("Range: %.2f - %.2f (position %.0f%%)\n", s.Low, s.High, s.Position*100))

	for _, o := range chart.Overlays {
		if len(o.Points) == 0 {
			b.WriteString(fmt.Sprintf("  %s: n/a\n", o.Name))
			continue
		}
		last := o.Points[len(o.Points)-1].Value
		dev := 0.0
		if last > 0 {
			dev = (s.LastClose - last) / last * 100
		}
		b.WriteString(fmt.Sprintf("  %s: %.2f (%+.1f%%)\n", o.Name, last, dev))
	}

	b.WriteString(formatRisk(chart.Risk))
	return b.String()
}

func formatRisk(r *model.RiskSeries) string {
	switch {
	case r == nil:
		return "Risk: hidden\n"
	case len(r.Points) == 0:
		return "Risk: unavailable\n"
	case r.Degraded:
		return fmt.Sprintf("Risk: degraded (%d placeholder points, insufficient history)\n", len(r.Points))
	default:
		return fmt.Sprintf("Risk: %.3f %s\n", r.Current, r.Level)
	}
}

// FormatPrices lists the latest live price per symbol in the given order.
func FormatPrices(symbols []string, prices map[string]model.PriceTick) string {
	var b strings.Builder
	b.WriteString("💹 Live prices\n")
	for _, sym := range symbols {
		tick, ok := prices[sym]
		if !ok {
			b.WriteString(fmt.Sprintf("  %s: -\n", sym))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s: %.2f @ %s\n", sym, tick.Price,
			time.UnixMilli(tick.Time).UTC().Format("15:04:05")))
	}
	return b.String()
}
