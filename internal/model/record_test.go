package model

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	plus5 := time.FixedZone("UTC+5", 5*3600)

	morning := time.Date(2023, 10, 2, 8, 15, 30, 0, plus5)
	evening := time.Date(2023, 10, 2, 23, 45, 0, 0, plus5)

	if !DayOf(morning).Equal(DayOf(evening)) {
		t.Errorf("same calendar day should normalize equal: %v vs %v", DayOf(morning), DayOf(evening))
	}

	want := time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC)
	if !DayOf(morning).Equal(want) {
		t.Errorf("DayOf = %v, want %v", DayOf(morning), want)
	}

	nextDay := time.Date(2023, 10, 3, 0, 0, 1, 0, plus5)
	if DayOf(morning).Equal(DayOf(nextDay)) {
		t.Errorf("different calendar days should not normalize equal")
	}
}
