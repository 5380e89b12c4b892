package core

import (
	"testing"
	"time"
)

func TestDayKey_RoundTrip(t *testing.T) {
	d, err := ParseDayKey("2020-03-15")
	if err != nil {
		t.Fatalf("ParseDayKey: %v", err)
	}
	if d.String() != "2020-03-15" {
		t.Errorf("String() = %s, want 2020-03-15", d)
	}
	if d.Time() != time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Time() = %v", d.Time())
	}
}

func TestDayKeyOf_TruncatesToDay(t *testing.T) {
	morning := time.Date(2021, 6, 1, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2021, 6, 1, 23, 59, 59, 0, time.UTC)
	if DayKeyOf(morning) != DayKeyOf(evening) {
		t.Error("same calendar day should map to the same key")
	}
	if DayKeyOf(evening)+1 != DayKeyOf(evening.Add(2*time.Second)) {
		t.Error("next day should be key + 1")
	}
	if DayKeyOf(time.Unix(0, 0)) != 0 {
		t.Error("epoch should be day 0")
	}
}

func TestParseDayKey_Invalid(t *testing.T) {
	if _, err := ParseDayKey("15/03/2020"); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestKernelMap_RoundTrip(t *testing.T) {
	typed := map[AssetID]float64{1: 0.5, 42: 0.25, -3: 0.25}

	kernel := ToKernelMap(typed)
	if kernel["42"] != 0.25 || kernel["-3"] != 0.25 {
		t.Errorf("unexpected kernel map: %v", kernel)
	}

	back, err := FromKernelMap(kernel)
	if err != nil {
		t.Fatalf("FromKernelMap: %v", err)
	}
	if len(back) != len(typed) {
		t.Fatalf("expected %d entries, got %d", len(typed), len(back))
	}
	for id, w := range typed {
		if back[id] != w {
			t.Errorf("asset %d: got %v, want %v", id, back[id], w)
		}
	}
}

func TestFromKernelMap_RejectsBadKey(t *testing.T) {
	if _, err := FromKernelMap(map[string]int{"SPY": 1}); err == nil {
		t.Error("expected error for non integer key")
	}
}
