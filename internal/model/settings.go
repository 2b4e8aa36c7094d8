package model

// IndicatorSettings selects which overlays get computed for a chart.
// It is replaced as a whole; any combination, including all off, is valid.
type IndicatorSettings struct {
	ShowMA20     bool `json:"show_ma20" yaml:"show_ma20"`
	ShowMA50     bool `json:"show_ma50" yaml:"show_ma50"`
	ShowMA100    bool `json:"show_ma100" yaml:"show_ma100"`
	ShowMA200    bool `json:"show_ma200" yaml:"show_ma200"`
	ShowBullBand bool `json:"show_bull_band" yaml:"show_bull_band"`
	ShowRisk     bool `json:"show_risk" yaml:"show_risk"`
}

// DefaultIndicatorSettings turns every overlay on.
func DefaultIndicatorSettings() IndicatorSettings {
	return IndicatorSettings{
		ShowMA20:     true,
		ShowMA50:     true,
		ShowMA100:    true,
		ShowMA200:    true,
		ShowBullBand: true,
		ShowRisk:     true,
	}
}
