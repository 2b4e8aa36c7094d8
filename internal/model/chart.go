package model

import "time"

// Overlay is a named line drawn over the candles.
type Overlay struct {
	Name      string           `json:"name"`
	Color     string           `json:"color"`
	LineWidth int              `json:"line_width"`
	Points    []IndicatorPoint `json:"points"`
}

// RiskSeries is the risk oscillator plus the display values derived from
// its most recent point.
type RiskSeries struct {
	Points []RiskPoint `json:"points"`
	// Degraded is set when the input was too short and Points holds the
	// three-point placeholder.
	Degraded bool    `json:"degraded"`
	Current  float64 `json:"current"`
	Level    string  `json:"level"`
	Severity string  `json:"severity"`
	Color    string  `json:"color"`
}

// PriceStats summarizes the visible price range.
type PriceStats struct {
	LastClose float64 `json:"last_close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Position  float64 `json:"position"` // 0.0 ~ 1.0
}

// Chart is everything the renderer needs for one symbol.
type Chart struct {
	Symbol     string            `json:"symbol"`
	TimeFrame  TimeFrame         `json:"timeframe"`
	Candles    []Candle          `json:"candles"`
	Overlays   []Overlay         `json:"overlays"`
	Risk       *RiskSeries       `json:"risk,omitempty"`
	Stats      PriceStats        `json:"stats"`
	Settings   IndicatorSettings `json:"settings"`
	ComputedAt time.Time         `json:"computed_at"`
	Err        string            `json:"error,omitempty"`
}

// Overlay returns the overlay with the given name.
func (c *Chart) Overlay(name string) (Overlay, bool) {
	for _, o := range c.Overlays {
		if o.Name == name {
			return o, true
		}
	}
	return Overlay{}, false
}
