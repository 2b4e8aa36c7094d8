package calculator

import (
	"testing"

	"CryptoLens/internal/model"
)

// 2024-01-01 is a Monday, the first day of ISO week 2024-W01.
const mon2024w01 = int64(1704067200)

func TestResampleWeekly_Buckets(t *testing.T) {
	candles := []model.Candle{
		{Time: mon2024w01, Open: 10, High: 12, Low: 9, Close: 11},
		{Time: mon2024w01 + 2*day, Open: 11, High: 15, Low: 10, Close: 14},
		{Time: mon2024w01 + 6*day, Open: 14, High: 14, Low: 8, Close: 9},
		{Time: mon2024w01 + 7*day, Open: 9, High: 10, Low: 7, Close: 8},
		{Time: mon2024w01 + 9*day, Open: 8, High: 20, Low: 8, Close: 19},
	}

	weeks := ResampleWeekly(candles)
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}

	want := []model.Candle{
		{Time: mon2024w01, Open: 10, High: 15, Low: 8, Close: 9},
		{Time: mon2024w01 + 7*day, Open: 9, High: 20, Low: 7, Close: 19},
	}
	for i := range want {
		if weeks[i] != want[i] {
			t.Errorf("week %d: got %+v, want %+v", i, weeks[i], want[i])
		}
	}
}

func TestResampleWeekly_ISOYearBoundary(t *testing.T) {
	// 2020-12-31 (Thu) and 2021-01-01 (Fri) both fall in 2020-W53;
	// 2021-01-04 (Mon) starts 2021-W01.
	candles := []model.Candle{
		{Time: 1609372800, Open: 1, High: 2, Low: 1, Close: 2},
		{Time: 1609459200, Open: 2, High: 3, Low: 2, Close: 3},
		{Time: 1609718400, Open: 3, High: 4, Low: 3, Close: 4},
	}
	weeks := ResampleWeekly(candles)
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	if weeks[0].Close != 3 || weeks[0].High != 3 {
		t.Errorf("unexpected first week: %+v", weeks[0])
	}
	if weeks[1].Time != 1609718400 {
		t.Errorf("second week should start on 2021-01-04, got %d", weeks[1].Time)
	}
}

func TestResampleWeekly_Unsorted(t *testing.T) {
	a := model.Candle{Time: mon2024w01, Open: 1, High: 1, Low: 1, Close: 1}
	b := model.Candle{Time: mon2024w01 + day, Open: 2, High: 2, Low: 2, Close: 2}
	c := model.Candle{Time: mon2024w01 + 8*day, Open: 3, High: 3, Low: 3, Close: 3}

	weeks := ResampleWeekly([]model.Candle{c, b, a})
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	if weeks[0].Open != 1 || weeks[0].Close != 2 {
		t.Errorf("first week should open at 1 and close at 2, got %+v", weeks[0])
	}
}

func TestResampleWeekly_Empty(t *testing.T) {
	weeks := ResampleWeekly(nil)
	if weeks == nil || len(weeks) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", weeks)
	}
}

func TestResampleWeekly_Idempotent(t *testing.T) {
	var candles []model.Candle
	for i := int64(0); i < 30; i++ {
		p := float64(100 + i)
		candles = append(candles, model.Candle{Time: mon2024w01 + i*day, Open: p, High: p + 1, Low: p - 1, Close: p})
	}
	once := ResampleWeekly(candles)
	twice := ResampleWeekly(once)
	if len(once) != len(twice) {
		t.Fatalf("resampling weekly data changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("week %d changed: %+v -> %+v", i, once[i], twice[i])
		}
	}
}
