package calculator

import (
	"time"

	"CryptoLens/internal/model"
)

// ResampleWeekly collapses the series into one candle per ISO week (UTC).
// Each weekly candle takes the time and open of the first candle in the week,
// the close of the last one, and the extreme high and low in between.
func ResampleWeekly(candles []model.Candle) []model.Candle {
	candles = sortedByTime(candles)
	if len(candles) == 0 {
		return []model.Candle{}
	}

	var weeks []model.Candle
	current := candles[0]
	year, week := isoWeek(current.Time)

	for _, c := range candles[1:] {
		y, w := isoWeek(c.Time)
		if y != year || w != week {
			weeks = append(weeks, current)
			current = c
			year, week = y, w
			continue
		}
		if c.High > current.High {
			current.High = c.High
		}
		if c.Low < current.Low {
			current.Low = c.Low
		}
		current.Close = c.Close
	}
	weeks = append(weeks, current)
	return weeks
}

func isoWeek(ts int64) (year, week int) {
	return time.Unix(ts, 0).UTC().ISOWeek()
}
