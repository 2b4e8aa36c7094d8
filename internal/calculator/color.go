package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// riskPalette maps risk values below Below to Color, checked in order.
var riskPalette = []struct {
	Below float64
	Color string
}{
	{0.1, "#0000ff"},
	{0.2, "#000bff"},
	{0.3, "#0090ff"},
	{0.4, "#00fbff"},
	{0.5, "#00ff7e"},
	{0.6, "#00ff37"},
	{0.7, "#94ff00"},
	{0.8, "#ffff00"},
	{0.9, "#ffb200"},
}

// riskPaletteTop is the color for values of 0.9 and above.
const riskPaletteTop = "#ff0017"

// RiskColor returns the decile color for a risk value in [0,1].
// Values outside the range map to the nearest end of the palette.
func RiskColor(value float64) string {
	if math.IsNaN(value) {
		return riskPalette[0].Color
	}
	for _, p := range riskPalette {
		if value < p.Below {
			return p.Color
		}
	}
	return riskPaletteTop
}

// ColorLerp interpolates linearly between colorA (at lo) and colorB (at hi)
// for the given value. Both colors must be "#rrggbb".
func ColorLerp(value, lo, hi float64, colorA, colorB string) (string, error) {
	a, err := parseHex(colorA)
	if err != nil {
		return "", err
	}
	b, err := parseHex(colorB)
	if err != nil {
		return "", err
	}
	if lo == hi {
		return strings.ToLower(colorA), nil
	}

	ratio := clamp01((value - lo) / (hi - lo))
	var out [3]int
	for i := range out {
		out[i] = int(float64(a[i]) + (float64(b[i])-float64(a[i]))*ratio + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2]), nil
}

func parseHex(color string) ([3]int, error) {
	var rgb [3]int
	if len(color) != 7 || color[0] != '#' {
		return rgb, fmt.Errorf("invalid color %q: want #rrggbb", color)
	}
	for i := range rgb {
		v, err := strconv.ParseUint(color[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return rgb, fmt.Errorf("invalid color %q: %w", color, err)
		}
		rgb[i] = int(v)
	}
	return rgb, nil
}

// RiskLevel returns the human-readable label for a risk value.
func RiskLevel(value float64) string {
	switch {
	case value < 0.2:
		return "Very Low"
	case value < 0.4:
		return "Low"
	case value < 0.6:
		return "Medium"
	case value < 0.8:
		return "High"
	default:
		return "Extreme"
	}
}

// RiskSeverity maps a risk value onto a UI status class.
func RiskSeverity(value float64) string {
	switch {
	case value < 0.2:
		return "success"
	case value < 0.4:
		return "info"
	case value < 0.6:
		return "warning"
	default:
		return "error"
	}
}

// FillColor returns the area fill under the risk line: teal fading out
// towards the middle for low levels, dark red fading in for high levels.
func FillColor(level float64) string {
	level = clamp01(level)
	if level <= 0.5 {
		return fmt.Sprintf("rgba(0, 85, 85, %s)", alpha(0.9-0.6*level))
	}
	return fmt.Sprintf("rgba(139, 0, 0, %s)", alpha(0.9-0.6*(1-level)))
}

func alpha(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// RiskBand is a fixed background band drawn behind the risk oscillator.
type RiskBand struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// RiskBands returns the five background bands from low to high risk.
func RiskBands() []RiskBand {
	return []RiskBand{
		{From: 0, To: 0.2, Color: "rgba(0, 200, 83, 0.1)", Label: "Low"},
		{From: 0.2, To: 0.4, Color: "rgba(0, 230, 118, 0.1)", Label: "Low-Med"},
		{From: 0.4, To: 0.6, Color: "rgba(255, 235, 59, 0.1)", Label: "Medium"},
		{From: 0.6, To: 0.8, Color: "rgba(255, 145, 0, 0.1)", Label: "Med-High"},
		{From: 0.8, To: 1.0, Color: "rgba(255, 23, 68, 0.1)", Label: "High"},
	}
}
