package calculator

import (
	"encoding/json"
	"math"
	"testing"

	"CryptoLens/internal/model"
)

func risingSeries(n int) []model.Candle {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	return candlesFromCloses(closes...)
}

func TestComputeRisk_FullSeries(t *testing.T) {
	candles := risingSeries(400)
	points := ComputeRisk(candles)
	if len(points) != 400-RiskWindow+1 {
		t.Fatalf("expected %d points, got %d", 400-RiskWindow+1, len(points))
	}

	for i, p := range points {
		if p.Value < 0 || p.Value > 1 {
			t.Errorf("point %d out of range: %f", i, p.Value)
		}
		src := candles[i+RiskWindow-1]
		if p.Time != src.Time || p.Price != src.Close {
			t.Errorf("point %d: got time=%d price=%f, want time=%d price=%f", i, p.Time, p.Price, src.Time, src.Close)
		}
		if i > 0 && p.Value < points[i-1].Value {
			t.Errorf("expected non-decreasing risk on a steady uptrend at %d", i)
		}
	}
	if points[0].Value != 0 {
		t.Errorf("minimum should map to exactly 0, got %v", points[0].Value)
	}
	if points[len(points)-1].Value != 1 {
		t.Errorf("maximum should map to exactly 1, got %v", points[len(points)-1].Value)
	}
	if got := RiskColor(points[len(points)-1].Value); got != "#ff0017" {
		t.Errorf("expected top color for last point, got %s", got)
	}
}

func TestComputeRisk_FlatSeries(t *testing.T) {
	closes := make([]float64, RiskWindow+5)
	for i := range closes {
		closes[i] = 42
	}
	points := ComputeRisk(candlesFromCloses(closes...))
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	for i, p := range points {
		if p.Value != 0.5 {
			t.Errorf("point %d: expected 0.5 for zero spread, got %f", i, p.Value)
		}
	}
}

func TestComputeRisk_ExactWindow(t *testing.T) {
	points := ComputeRisk(risingSeries(RiskWindow))
	if len(points) != 1 {
		t.Fatalf("expected a single point, got %d", len(points))
	}
	if points[0].Value != 0.5 {
		t.Errorf("single point has no spread, expected 0.5, got %f", points[0].Value)
	}
}

func TestComputeRisk_Degraded(t *testing.T) {
	candles := risingSeries(10)
	points := ComputeRisk(candles)
	if len(points) != 3 {
		t.Fatalf("expected 3 placeholder points, got %d", len(points))
	}
	want := []model.RiskPoint{
		{Time: candles[0].Time, Value: 0.3, Price: candles[0].Close},
		{Time: candles[5].Time, Value: 0.5, Price: candles[5].Close},
		{Time: candles[9].Time, Value: 0.7, Price: candles[9].Close},
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d: got %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestComputeRisk_OneShortOfWindow(t *testing.T) {
	points := ComputeRisk(risingSeries(RiskWindow - 1))
	if len(points) != 3 {
		t.Fatalf("expected 3 placeholder points for %d candles, got %d", RiskWindow-1, len(points))
	}
}

func TestComputeRisk_ZeroCloseKeepsSeriesFinite(t *testing.T) {
	candles := risingSeries(380)
	candles[376].Close = 0

	points := ComputeRisk(candles)
	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	for i, p := range points {
		if math.IsNaN(p.Value) || p.Value < 0 || p.Value > 1 {
			t.Errorf("point %d: expected a value in [0,1], got %v", i, p.Value)
		}
	}
	// candles[376] is the source of point 3.
	if points[3].Value != 0 {
		t.Errorf("zero close should map to the bottom of the range, got %v", points[3].Value)
	}
	if _, err := json.Marshal(points); err != nil {
		t.Errorf("risk points should encode as JSON: %v", err)
	}
}

func TestComputeRisk_SingleCandle(t *testing.T) {
	points := ComputeRisk(risingSeries(1))
	if len(points) != 3 {
		t.Fatalf("expected 3 placeholder points, got %d", len(points))
	}
	for _, p := range points {
		if p.Time != day {
			t.Errorf("all placeholder points should reuse the only candle, got time %d", p.Time)
		}
	}
}

func TestComputeRisk_Empty(t *testing.T) {
	points := ComputeRisk(nil)
	if points == nil || len(points) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", points)
	}
}

func TestComputeRisk_Unsorted(t *testing.T) {
	sorted := risingSeries(RiskWindow + 20)
	reversed := make([]model.Candle, len(sorted))
	for i, c := range sorted {
		reversed[len(sorted)-1-i] = c
	}

	want := ComputeRisk(sorted)
	got := ComputeRisk(reversed)
	if len(got) != len(want) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if reversed[0].Time != sorted[len(sorted)-1].Time {
		t.Error("input slice was mutated")
	}
}

func TestRiskDegraded(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{0, false},
		{1, true},
		{RiskWindow - 1, true},
		{RiskWindow, false},
		{1000, false},
	}
	for _, tt := range tests {
		if got := RiskDegraded(tt.n); got != tt.want {
			t.Errorf("RiskDegraded(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
