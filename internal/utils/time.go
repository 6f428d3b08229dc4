package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/planner/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// ToMillis converts a time to epoch milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a time in loc.
func FromMillis(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc)
}

// StartOfDay truncates an epoch-millisecond timestamp to local midnight in loc.
// The result is idempotent: StartOfDay(StartOfDay(t)) == StartOfDay(t).
func StartOfDay(ms int64, loc *time.Location) int64 {
	t := FromMillis(ms, loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).UnixMilli()
}

// DayBounds returns the inclusive [dayStart, dayStart+24h-1ms] range containing ms.
func DayBounds(ms int64, loc *time.Location) (int64, int64) {
	start := StartOfDay(ms, loc)
	return start, start + constants.MillisPerDay - 1
}

// AddDays moves a day start by n calendar days, staying on local midnight
// even across DST transitions.
func AddDays(dayStart int64, n int, loc *time.Location) int64 {
	t := FromMillis(dayStart, loc)
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location()).UnixMilli()
}

// StartOfMonth returns local midnight on the first day of the month containing ms.
func StartOfMonth(ms int64, loc *time.Location) int64 {
	t := FromMillis(ms, loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).UnixMilli()
}

// MonthBounds returns the inclusive millisecond range of a calendar month.
func MonthBounds(year int, month time.Month, loc *time.Location) (int64, int64) {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	return start.UnixMilli(), lastDay.UnixMilli() + constants.MillisPerDay - 1
}

// InRange reports whether ms lies within the inclusive range [start, end].
func InRange(ms, start, end int64) bool {
	return ms >= start && ms <= end
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// CombineDateAndTime combines a date string (YYYY-MM-DD) and time string (HH:MM)
// into a single time.Time in the specified timezone.
func CombineDateAndTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	date, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}

	timeOfDay, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		loc,
	), nil
}

// ParseDateOrToday resolves an optional YYYY-MM-DD argument to epoch milliseconds,
// defaulting to now.
func ParseDateOrToday(dateStr string, now time.Time) (int64, error) {
	if dateStr == "" {
		return now.UnixMilli(), nil
	}
	t, err := ParseDateInLocation(dateStr, now.Location())
	if err != nil {
		return 0, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", dateStr)
	}
	return t.UnixMilli(), nil
}

// FormatDay formats a millisecond timestamp as YYYY-MM-DD in loc.
func FormatDay(ms int64, loc *time.Location) string {
	return FromMillis(ms, loc).Format(constants.DateFormat)
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

// DaysBetween returns the number of calendar days from a to b in loc.
// It is negative when b precedes a.
func DaysBetween(a, b int64, loc *time.Location) int {
	ta, tb := FromMillis(a, loc), FromMillis(b, loc)
	da := time.Date(ta.Year(), ta.Month(), ta.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(tb.Year(), tb.Month(), tb.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
