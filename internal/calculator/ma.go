package calculator

import (
	"sort"

	"CryptoLens/internal/model"
)

// SMA computes the simple moving average of closes over the given period.
// The result has len(candles)-period+1 points, each stamped with the time of
// the last candle in its window. It is empty when there are fewer candles
// than the period.
func SMA(candles []model.Candle, period int) []model.IndicatorPoint {
	candles = sortedByTime(candles)
	n := len(candles)
	if period <= 0 || n < period {
		return []model.IndicatorPoint{}
	}

	points := make([]model.IndicatorPoint, 0, n-period+1)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += candles[i].Close
	}
	points = append(points, model.IndicatorPoint{Time: candles[period-1].Time, Value: sum / float64(period)})

	// Slide the window: drop the oldest close, add the newest.
	for i := period; i < n; i++ {
		sum += candles[i].Close - candles[i-period].Close
		points = append(points, model.IndicatorPoint{Time: candles[i].Time, Value: sum / float64(period)})
	}
	return points
}

// EMA computes the exponential moving average of closes, seeded with the
// SMA of the first period closes. Same length rules as SMA.
func EMA(candles []model.Candle, period int) []model.IndicatorPoint {
	candles = sortedByTime(candles)
	n := len(candles)
	if period <= 0 || n < period {
		return []model.IndicatorPoint{}
	}

	multiplier := 2.0 / float64(period+1)
	points := make([]model.IndicatorPoint, 0, n-period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += candles[i].Close
	}
	prev := seed / float64(period)
	points = append(points, model.IndicatorPoint{Time: candles[period-1].Time, Value: prev})

	for i := period; i < n; i++ {
		prev = (candles[i].Close-prev)*multiplier + prev
		points = append(points, model.IndicatorPoint{Time: candles[i].Time, Value: prev})
	}
	return points
}

// SortCandles returns the candles ordered by time. The input is never
// modified; already ordered input is returned as is.
func SortCandles(candles []model.Candle) []model.Candle {
	return sortedByTime(candles)
}

func sortedByTime(candles []model.Candle) []model.Candle {
	if sort.SliceIsSorted(candles, func(i, j int) bool { return candles[i].Time < candles[j].Time }) {
		return candles
	}
	sorted := make([]model.Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return sorted
}
