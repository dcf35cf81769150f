package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestWeekKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday maps to itself", date(2026, time.March, 2), "2026-03-02"},
		{"wednesday maps back to monday", date(2026, time.March, 4), "2026-03-02"},
		{"sunday belongs to previous monday", date(2026, time.March, 8), "2026-03-02"},
		{"week spanning month boundary", date(2026, time.April, 1), "2026-03-30"},
		{"week spanning year boundary", date(2026, time.January, 1), "2025-12-29"},
		{"sunday january 4th", date(2026, time.January, 4), "2025-12-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekKey(tt.in); got != tt.want {
				t.Errorf("WeekKey(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuarterKey(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{date(2026, time.January, 1), "2026-Q1"},
		{date(2026, time.March, 31), "2026-Q1"},
		{date(2026, time.April, 1), "2026-Q2"},
		{date(2026, time.September, 30), "2026-Q3"},
		{date(2026, time.October, 1), "2026-Q4"},
		{date(2026, time.December, 31), "2026-Q4"},
	}

	for _, tt := range tests {
		if got := QuarterKey(tt.in); got != tt.want {
			t.Errorf("QuarterKey(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDayAndMonthKeys(t *testing.T) {
	in := date(2026, time.February, 7)
	if got := DayKey(in); got != "2026-02-07" {
		t.Errorf("DayKey = %q", got)
	}
	if got := MonthKey(in); got != "2026-02" {
		t.Errorf("MonthKey = %q", got)
	}
}

func TestYesterday(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-03-02", "2026-03-01"},
		{"2026-03-01", "2026-02-28"},
		{"2026-01-01", "2025-12-31"},
		{"2024-03-01", "2024-02-29"}, // leap year
	}

	for _, tt := range tests {
		got, err := Yesterday(tt.in)
		if err != nil {
			t.Fatalf("Yesterday(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Yesterday(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := Yesterday("not-a-date"); err == nil {
		t.Error("Yesterday accepted a malformed key")
	}
}

func TestInSeasonWindow(t *testing.T) {
	tests := []struct {
		window string
		in     time.Time
		want   bool
	}{
		{"november-december", date(2026, time.November, 5), true},
		{"november-december", date(2026, time.December, 24), true},
		{"november-december", date(2026, time.October, 31), false},
		{"february", date(2026, time.February, 14), true},
		{"february", date(2026, time.March, 1), false},
		{"", date(2026, time.June, 1), false},
		{"smarch", date(2026, time.June, 1), false},
	}

	for _, tt := range tests {
		if got := InSeasonWindow(tt.window, tt.in); got != tt.want {
			t.Errorf("InSeasonWindow(%q, %v) = %v, want %v", tt.window, tt.in, got, tt.want)
		}
	}
}

func TestInCoarseSeason(t *testing.T) {
	tests := []struct {
		season string
		in     time.Time
		want   bool
	}{
		{"winter", date(2026, time.January, 15), true},
		{"winter", date(2026, time.November, 1), true},
		{"winter", date(2026, time.April, 1), false},
		{"summer", date(2026, time.May, 1), true},
		{"summer", date(2026, time.September, 30), true},
		{"summer", date(2026, time.October, 1), false},
		{"spring-summer", date(2026, time.April, 1), true},
		{"spring-summer", date(2026, time.March, 31), false},
		{"", date(2026, time.January, 1), true},
	}

	for _, tt := range tests {
		if got := InCoarseSeason(tt.season, tt.in); got != tt.want {
			t.Errorf("InCoarseSeason(%q, %v) = %v, want %v", tt.season, tt.in, got, tt.want)
		}
	}
}
