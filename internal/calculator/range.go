package calculator

import (
	"math"

	"CryptoLens/internal/model"
)

// PriceRange scans the series and returns its highest high and lowest low.
// An empty series yields zeros.
func PriceRange(candles []model.Candle) (high, low float64) {
	if len(candles) == 0 {
		return 0, 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range candles {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low
}

// RangePosition returns where the current price sits within [low, high] (0.0~1.0).
// A flat or inverted range yields 0.5.
func RangePosition(current, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}

// Stats summarises the last close against the full range of the series.
func Stats(candles []model.Candle) model.PriceStats {
	candles = sortedByTime(candles)
	if len(candles) == 0 {
		return model.PriceStats{Position: 0.5}
	}
	high, low := PriceRange(candles)
	last := candles[len(candles)-1].Close
	return model.PriceStats{
		LastClose: last,
		High:      high,
		Low:       low,
		Position:  RangePosition(last, high, low),
	}
}
