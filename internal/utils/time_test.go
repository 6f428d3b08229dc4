package utils

import (
	"testing"
	"time"

	"github.com/julianstephens/planner/internal/constants"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone America/New_York",
			timezone: "America/New_York",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestStartOfDayBucket(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	locations := []*time.Location{time.UTC, ny}
	timestamps := []time.Time{
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 12, 30, 15, 999_000_000, time.UTC),
		time.Date(2026, 11, 1, 5, 59, 59, 0, time.UTC),
		time.Date(2026, 12, 31, 23, 59, 59, 999_000_000, time.UTC),
		time.Date(2024, 2, 29, 6, 0, 0, 0, time.UTC),
	}

	for _, loc := range locations {
		for _, ts := range timestamps {
			ms := ts.UnixMilli()
			start := StartOfDay(ms, loc)
			if start > ms {
				t.Errorf("StartOfDay(%d, %s) = %d, want <= input", ms, loc, start)
			}
			if ms >= start+constants.MillisPerDay {
				t.Errorf("StartOfDay(%d, %s) = %d, input lies beyond the bucket", ms, loc, start)
			}
			if again := StartOfDay(start, loc); again != start {
				t.Errorf("StartOfDay not idempotent for %s: %d != %d", loc, again, start)
			}
			local := FromMillis(start, loc)
			if local.Hour() != 0 || local.Minute() != 0 || local.Second() != 0 {
				t.Errorf("StartOfDay(%d, %s) = %v, want local midnight", ms, loc, local)
			}
		}
	}
}

func TestDayBounds(t *testing.T) {
	ms := time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC).UnixMilli()
	start, end := DayBounds(ms, time.UTC)

	wantStart := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC).UnixMilli()
	if start != wantStart {
		t.Errorf("DayBounds() start = %d, want %d", start, wantStart)
	}
	if end != wantStart+constants.MillisPerDay-1 {
		t.Errorf("DayBounds() end = %d, want %d", end, wantStart+constants.MillisPerDay-1)
	}
	if !InRange(ms, start, end) {
		t.Error("InRange() = false for timestamp inside its own day")
	}
	if InRange(end+1, start, end) {
		t.Error("InRange() = true for next day start")
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 2026-03-08 is the spring-forward day in New York (23h long)
	day := time.Date(2026, 3, 8, 0, 0, 0, 0, ny).UnixMilli()
	next := AddDays(day, 1, ny)
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, ny).UnixMilli()
	if next != want {
		t.Errorf("AddDays(+1) = %v, want %v", FromMillis(next, ny), FromMillis(want, ny))
	}
	if back := AddDays(next, -1, ny); back != day {
		t.Errorf("AddDays(-1) = %v, want %v", FromMillis(back, ny), FromMillis(day, ny))
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2024, time.February, time.UTC)
	if got := FromMillis(start, time.UTC); got.Day() != 1 || got.Month() != time.February {
		t.Errorf("MonthBounds() start = %v", got)
	}
	if got := FromMillis(end, time.UTC); got.Day() != 29 || got.Hour() != 23 {
		t.Errorf("MonthBounds() end = %v, want Feb 29 23:59:59.999", got)
	}
}

func TestParseDateOrToday(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	got, err := ParseDateOrToday("", now)
	if err != nil {
		t.Fatalf("ParseDateOrToday(\"\") error = %v", err)
	}
	if got != now.UnixMilli() {
		t.Errorf("ParseDateOrToday(\"\") = %d, want now", got)
	}

	got, err = ParseDateOrToday("2026-01-02", now)
	if err != nil {
		t.Fatalf("ParseDateOrToday() error = %v", err)
	}
	if FormatDay(got, time.UTC) != "2026-01-02" {
		t.Errorf("ParseDateOrToday() = %s, want 2026-01-02", FormatDay(got, time.UTC))
	}

	if _, err := ParseDateOrToday("01/02/2026", now); err == nil {
		t.Error("ParseDateOrToday() expected error for malformed date")
	}
}

func TestDaysBetween(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", time.Date(2026, 3, 7, 1, 0, 0, 0, ny), time.Date(2026, 3, 7, 23, 0, 0, 0, ny), 0},
		{"across spring forward", time.Date(2026, 3, 7, 12, 0, 0, 0, ny), time.Date(2026, 3, 9, 0, 30, 0, 0, ny), 2},
		{"backwards", time.Date(2026, 3, 9, 0, 0, 0, 0, ny), time.Date(2026, 3, 1, 0, 0, 0, 0, ny), -8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a.UnixMilli(), tt.b.UnixMilli(), ny); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}
