package model

// Candle is a single OHLC bar. Time is the bar open in unix seconds.
type Candle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// IndicatorPoint is one point of a derived line series (SMA, EMA).
type IndicatorPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// RiskPoint is one point of the risk oscillator. Value lies in [0,1];
// Price is the close the value was derived from.
type RiskPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
	Price float64 `json:"price"`
}

// PriceTick is a single trade price from the live feed.
type PriceTick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Time   int64   `json:"time"` // unix milliseconds
}
