package calculator

import (
	"math"

	"CryptoLens/internal/model"
)

const (
	// RiskWindow is the SMA period the risk oscillator is measured against.
	RiskWindow = 374
	// RiskExponent is applied to the 1-based sample index of each scaled distance.
	RiskExponent = 0.395
)

// Placeholder values used when the series is shorter than RiskWindow.
const (
	degradedLow  = 0.3
	degradedMid  = 0.5
	degradedHigh = 0.7
)

// RiskDegraded reports whether ComputeRisk falls back to the placeholder
// series for n candles.
func RiskDegraded(n int) bool {
	return n > 0 && n < RiskWindow
}

// ComputeRisk maps the series onto a [0,1] oscillator measuring how far each
// close sits above or below its RiskWindow SMA on a log scale.
//
// With fewer than RiskWindow candles a three-point placeholder is returned
// (first, middle and last candle at 0.3, 0.5 and 0.7). Normalization is
// global: the smallest scaled distance maps to 0 and the largest to 1.
func ComputeRisk(candles []model.Candle) []model.RiskPoint {
	candles = sortedByTime(candles)
	n := len(candles)
	if n == 0 {
		return []model.RiskPoint{}
	}
	if n < RiskWindow {
		return degradedRisk(candles)
	}

	sma := SMA(candles, RiskWindow)
	scaled := make([]float64, len(sma))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, avg := range sma {
		c := candles[i+RiskWindow-1]
		v := math.Log(c.Close/avg.Value) * math.Pow(float64(i+1), RiskExponent)
		scaled[i] = v
		// Non-finite distances (zero or negative closes) stay out of the range.
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	spread := hi - lo
	points := make([]model.RiskPoint, len(scaled))
	for i, v := range scaled {
		c := candles[i+RiskWindow-1]
		value := 0.5
		if spread > 0 && !math.IsNaN(v) {
			value = clamp01((v - lo) / spread)
		}
		points[i] = model.RiskPoint{Time: c.Time, Value: value, Price: c.Close}
	}
	return points
}

func degradedRisk(candles []model.Candle) []model.RiskPoint {
	first := candles[0]
	mid := candles[len(candles)/2]
	last := candles[len(candles)-1]
	return []model.RiskPoint{
		{Time: first.Time, Value: degradedLow, Price: first.Close},
		{Time: mid.Time, Value: degradedMid, Price: mid.Close},
		{Time: last.Time, Value: degradedHigh, Price: last.Close},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
