// Package stats computes derived statistics from collection snapshots.
//
// Every function is pure: callers pass the records and the current instant, and
// the instant's location decides where day buckets begin.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/planner/internal/utils"
)

// DistinctDays buckets timestamps into day starts in loc and returns them sorted
// ascending with duplicates removed.
func DistinctDays(timestamps []int64, loc *time.Location) []int64 {
	seen := make(map[int64]struct{}, len(timestamps))
	days := make([]int64, 0, len(timestamps))
	for _, ts := range timestamps {
		day := utils.StartOfDay(ts, loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Streaks returns the current and longest run of consecutive days among
// timestamps. The current run is anchored at today, or at yesterday when today
// has nothing logged yet, and ends at the first gap. Longest is 0 for no days.
func Streaks(timestamps []int64, now time.Time) (current, longest int) {
	loc := now.Location()
	days := DistinctDays(timestamps, loc)
	if len(days) == 0 {
		return 0, 0
	}

	present := make(map[int64]struct{}, len(days))
	for _, d := range days {
		present[d] = struct{}{}
	}

	today := utils.StartOfDay(now.UnixMilli(), loc)
	cursor := today
	if _, ok := present[cursor]; !ok {
		cursor = utils.AddDays(today, -1, loc)
	}
	for {
		if _, ok := present[cursor]; !ok {
			break
		}
		current++
		cursor = utils.AddDays(cursor, -1, loc)
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if utils.AddDays(days[i-1], 1, loc) == days[i] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
