package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

func JournalStats(entries []models.JournalEntry, now time.Time) models.JournalStats {
	loc := now.Location()
	monthStart := utils.StartOfMonth(now.UnixMilli(), loc)

	stats := models.JournalStats{TotalEntries: len(entries), TopTags: []models.TagCount{}}
	dates := make([]int64, 0, len(entries))
	moodSum, moodCount := 0, 0
	tagCounts := make(map[string]int)

	for _, e := range entries {
		dates = append(dates, e.Date)
		if e.Date >= monthStart {
			stats.EntriesThisMonth++
		}
		if ord := e.Mood.Ordinal(); ord >= 0 {
			moodSum += ord
			moodCount++
		}
		for _, tag := range e.Tags {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				tagCounts[tag]++
			}
		}
	}

	stats.AverageMood = ratio(moodSum, moodCount)
	stats.CurrentStreak, stats.LongestStreak = Streaks(dates, now)
	stats.TopTags = TopTags(tagCounts, constants.TopJournalTags)
	return stats
}

// TopTags returns the n most frequent tags, ties broken alphabetically.
func TopTags(counts map[string]int, n int) []models.TagCount {
	tags := make([]models.TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, models.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}
