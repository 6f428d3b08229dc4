package stats

import (
	"testing"
	"time"

	"github.com/julianstephens/planner/internal/utils"
)

var refNow = time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)

// daysAgo returns a timestamp at noon n days before refNow.
func daysAgo(n int) int64 {
	return time.Date(2026, 10, 17-n, 12, 0, 0, 0, time.UTC).UnixMilli()
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name        string
		days        []int64
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "no days",
			days:        nil,
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "single day today",
			days:        []int64{daysAgo(0)},
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "consecutive ending today",
			days:        []int64{daysAgo(0), daysAgo(1), daysAgo(2)},
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "gap at today and yesterday",
			days:        []int64{daysAgo(2), daysAgo(3)},
			wantCurrent: 0,
			wantLongest: 2,
		},
		{
			name:        "grace day when today is missing",
			days:        []int64{daysAgo(1), daysAgo(2), daysAgo(3)},
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "longest run is not the total",
			days:        []int64{daysAgo(10), daysAgo(9), daysAgo(8), daysAgo(5), daysAgo(4)},
			wantCurrent: 0,
			wantLongest: 3,
		},
		{
			name:        "current stops at first gap",
			days:        []int64{daysAgo(0), daysAgo(1), daysAgo(3), daysAgo(4), daysAgo(5), daysAgo(6)},
			wantCurrent: 2,
			wantLongest: 4,
		},
		{
			name:        "duplicates within a day count once",
			days:        []int64{daysAgo(0), daysAgo(0) + 1000, daysAgo(1), daysAgo(1) - 3600_000},
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "unsorted input",
			days:        []int64{daysAgo(2), daysAgo(0), daysAgo(1)},
			wantCurrent: 3,
			wantLongest: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := Streaks(tt.days, refNow)
			if current != tt.wantCurrent {
				t.Errorf("Streaks() current = %d, want %d", current, tt.wantCurrent)
			}
			if longest != tt.wantLongest {
				t.Errorf("Streaks() longest = %d, want %d", longest, tt.wantLongest)
			}
		})
	}
}

func TestStreaksAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 2026-03-08 is 23 hours long in New York
	now := time.Date(2026, 3, 9, 20, 0, 0, 0, ny)
	days := []int64{
		time.Date(2026, 3, 7, 23, 30, 0, 0, ny).UnixMilli(),
		time.Date(2026, 3, 8, 0, 15, 0, 0, ny).UnixMilli(),
		time.Date(2026, 3, 9, 8, 0, 0, 0, ny).UnixMilli(),
	}

	current, longest := Streaks(days, now)
	if current != 3 || longest != 3 {
		t.Errorf("Streaks() = (%d, %d), want (3, 3)", current, longest)
	}
}

func TestDistinctDays(t *testing.T) {
	got := DistinctDays([]int64{daysAgo(1), daysAgo(3), daysAgo(1) + 5, daysAgo(2)}, time.UTC)
	if len(got) != 3 {
		t.Fatalf("DistinctDays() returned %d days, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Errorf("DistinctDays() not ascending at %d: %v", i, got)
		}
		if got[i] != utils.StartOfDay(got[i], time.UTC) {
			t.Errorf("DistinctDays() returned non day-start %d", got[i])
		}
	}
}

func TestRatioGuardsZero(t *testing.T) {
	if got := ratio(3, 0); got != 0 {
		t.Errorf("ratio(3, 0) = %v, want 0", got)
	}
	if got := ratio(1, 4); got != 0.25 {
		t.Errorf("ratio(1, 4) = %v, want 0.25", got)
	}
}
