package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWeekdayOf(t *testing.T) {
	cases := []struct {
		date time.Time
		want WeekDay
	}{
		{time.Date(2023, 10, 2, 12, 0, 0, 0, time.UTC), Monday},
		{time.Date(2023, 10, 3, 0, 0, 0, 0, time.UTC), Tuesday},
		{time.Date(2023, 10, 7, 23, 59, 0, 0, time.UTC), Saturday},
		{time.Date(2023, 10, 8, 0, 0, 0, 0, time.UTC), Sunday},
	}
	for _, tc := range cases {
		if got := WeekdayOf(tc.date); got != tc.want {
			t.Errorf("WeekdayOf(%s) = %v, want %v", tc.date.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestScheduleSetOperations(t *testing.T) {
	s := NewSchedule(Monday, Friday)

	if !s.Contains(Monday) || !s.Contains(Friday) {
		t.Fatalf("schedule %v should contain Monday and Friday", s.Days())
	}
	if s.Contains(Tuesday) {
		t.Errorf("schedule should not contain Tuesday")
	}

	s.Add(Sunday)
	s.Remove(Friday)
	want := []WeekDay{Monday, Sunday}
	got := s.Days()
	if len(got) != len(want) {
		t.Fatalf("Days() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Days()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScheduleActiveOn(t *testing.T) {
	monday := time.Date(2023, 10, 2, 10, 0, 0, 0, time.UTC)
	tuesday := time.Date(2023, 10, 3, 10, 0, 0, 0, time.UTC)

	scheduled := NewSchedule(Monday)
	if !scheduled.ActiveOn(monday) {
		t.Errorf("Monday-only schedule should be active on a Monday")
	}
	if scheduled.ActiveOn(tuesday) {
		t.Errorf("Monday-only schedule should not be active on a Tuesday")
	}

	var event Schedule
	if !event.IsEmpty() {
		t.Fatalf("zero schedule should be empty")
	}
	if !event.ActiveOn(monday) || !event.ActiveOn(tuesday) {
		t.Errorf("empty schedule should be active every day")
	}
}

func TestScheduleScanValue(t *testing.T) {
	original := NewSchedule(Tuesday, Thursday, Sunday)
	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var restored Schedule
	if err := restored.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if restored != original {
		t.Errorf("round trip changed schedule: got %v, want %v", restored.Days(), original.Days())
	}

	var s Schedule
	if err := s.Scan(int64(200)); err == nil {
		t.Errorf("expected error for out-of-range mask")
	}
	if err := s.Scan("monday"); err == nil {
		t.Errorf("expected error for string input")
	}
	if err := s.Scan(nil); err != nil || s != 0 {
		t.Errorf("nil should scan to empty schedule, got %v, err %v", s, err)
	}
}

func TestTrackerValidate(t *testing.T) {
	cases := []struct {
		name    string
		tracker Tracker
		wantErr bool
	}{
		{"valid", Tracker{Name: "Пробежка"}, false},
		{"empty", Tracker{Name: ""}, true},
		{"whitespace only", Tracker{Name: "   "}, true},
		{"at limit", Tracker{Name: strings.Repeat("ж", MaxNameLength)}, false},
		{"over limit", Tracker{Name: strings.Repeat("ж", MaxNameLength+1)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tracker.Validate()
			if tc.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
