// Package calendar owns the period-key arithmetic the gamification engine
// compares against: day keys, ISO-week Monday keys, month keys and quarter
// keys, plus the seasonal month windows quests can be gated by. Keeping the
// date math here means week and quarter boundaries are tested on their own
// instead of through the engine.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// DayKey returns the YYYY-MM-DD key for t.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// WeekKey returns the day key of the Monday starting t's week.
func WeekKey(t time.Time) string {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started 6 days back
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return monday.Format(dayLayout)
}

// MonthKey returns the YYYY-MM key for t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// QuarterKey returns the YYYY-Qn key for t. Quarters are calendar quarters,
// Q1 being January through March.
func QuarterKey(t time.Time) string {
	quarter := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%d-Q%d", t.Year(), quarter)
}

// Yesterday returns the day key of the day before the given day key.
func Yesterday(dayKey string) (string, error) {
	t, err := time.Parse(dayLayout, dayKey)
	if err != nil {
		return "", fmt.Errorf("bad day key %q: %w", dayKey, err)
	}
	return t.AddDate(0, 0, -1).Format(dayLayout), nil
}

// ParseDay parses a YYYY-MM-DD key back into a time.
func ParseDay(dayKey string) (time.Time, error) {
	return time.Parse(dayLayout, dayKey)
}

// MonthName returns the lowercase english month name, the format seasonal
// quest windows are declared in.
func MonthName(t time.Time) string {
	return strings.ToLower(t.Month().String())
}

var monthByName = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// InSeasonWindow reports whether t's month falls inside a seasonal window.
// A window is either a single month name ("november") or an inclusive range
// ("november-december"). Unknown windows are closed.
func InSeasonWindow(window string, t time.Time) bool {
	if window == "" {
		return false
	}
	month := int(t.Month())
	parts := strings.SplitN(window, "-", 2)
	if len(parts) == 2 {
		start, okStart := monthByName[parts[0]]
		end, okEnd := monthByName[parts[1]]
		if !okStart || !okEnd {
			return false
		}
		return month >= start && month <= end
	}
	m, ok := monthByName[window]
	return ok && m == month
}

// InCoarseSeason reports whether t falls in one of the coarse gates weekly
// and monthly quests may carry: "winter" is November through March,
// "summer" May through September, "spring-summer" April through September.
func InCoarseSeason(season string, t time.Time) bool {
	month := int(t.Month())
	switch season {
	case "":
		return true
	case "winter":
		return month >= 11 || month <= 3
	case "summer":
		return month >= 5 && month <= 9
	case "spring-summer":
		return month >= 4 && month <= 9
	default:
		return false
	}
}
