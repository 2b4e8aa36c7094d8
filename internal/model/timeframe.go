package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeFrame = errors.New("invalid timeframe")

// TimeFrame is a candle interval, spelled the way the exchange spells it.
type TimeFrame string

const (
	TimeFrame1m  TimeFrame = "1m"
	TimeFrame5m  TimeFrame = "5m"
	TimeFrame15m TimeFrame = "15m"
	TimeFrame1h  TimeFrame = "1h"
	TimeFrame4h  TimeFrame = "4h"
	TimeFrame1d  TimeFrame = "1d"
	TimeFrame1w  TimeFrame = "1w"
	TimeFrame1M  TimeFrame = "1M"
)

var timeFrameDurations = map[TimeFrame]time.Duration{
	TimeFrame1m:  time.Minute,
	TimeFrame5m:  time.Minute * 5,
	TimeFrame15m: time.Minute * 15,
	TimeFrame1h:  time.Hour,
	TimeFrame4h:  time.Hour * 4,
	TimeFrame1d:  time.Hour * 24,
	TimeFrame1w:  time.Hour * 24 * 7,
	TimeFrame1M:  time.Hour * 24 * 30,
}

// TimeFrames lists the supported timeframes from finest to coarsest.
var TimeFrames = []TimeFrame{
	TimeFrame1m, TimeFrame5m, TimeFrame15m, TimeFrame1h,
	TimeFrame4h, TimeFrame1d, TimeFrame1w, TimeFrame1M,
}

func ParseTimeFrame(s string) (TimeFrame, error) {
	tf := TimeFrame(s)
	if _, ok := timeFrameDurations[tf]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFrame, s)
	}
	return tf, nil
}

func (tf TimeFrame) String() string { return string(tf) }

// Duration returns the nominal bar length. Months count as 30 days.
func (tf TimeFrame) Duration() time.Duration {
	return timeFrameDurations[tf]
}

// BullBandEligible reports whether the weekly bull-market support band is
// meaningful for this timeframe.
func (tf TimeFrame) BullBandEligible() bool {
	return tf == TimeFrame1d || tf == TimeFrame1w
}
