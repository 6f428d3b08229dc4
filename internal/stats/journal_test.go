package stats

import (
	"testing"
	"time"

	"github.com/julianstephens/planner/internal/models"
)

func TestJournalStats(t *testing.T) {
	entries := []models.JournalEntry{
		{ID: "1", Date: daysAgo(0), Mood: models.MoodAmazing, Tags: []string{"work", "gym"}},
		{ID: "2", Date: daysAgo(1), Mood: models.MoodGood, Tags: []string{"work", " "}},
		{ID: "3", Date: daysAgo(1), Mood: models.MoodOkay, Tags: []string{"family"}},
		{ID: "4", Date: time.Date(2026, 9, 20, 8, 0, 0, 0, time.UTC).UnixMilli(), Mood: models.MoodTerrible, Tags: []string{"gym", "travel", "books", "art"}},
	}

	got := JournalStats(entries, refNow)

	if got.TotalEntries != 4 {
		t.Errorf("JournalStats() TotalEntries = %d, want 4", got.TotalEntries)
	}
	if got.EntriesThisMonth != 3 {
		t.Errorf("JournalStats() EntriesThisMonth = %d, want 3", got.EntriesThisMonth)
	}
	// (4 + 3 + 2 + 0) / 4
	if got.AverageMood != 2.25 {
		t.Errorf("JournalStats() AverageMood = %v, want 2.25", got.AverageMood)
	}
	if got.CurrentStreak != 2 || got.LongestStreak != 2 {
		t.Errorf("JournalStats() streaks = (%d, %d), want (2, 2)", got.CurrentStreak, got.LongestStreak)
	}

	wantTags := []models.TagCount{
		{Tag: "gym", Count: 2},
		{Tag: "work", Count: 2},
		{Tag: "art", Count: 1},
		{Tag: "books", Count: 1},
		{Tag: "family", Count: 1},
	}
	if len(got.TopTags) != len(wantTags) {
		t.Fatalf("JournalStats() TopTags = %v, want %v", got.TopTags, wantTags)
	}
	for i := range wantTags {
		if got.TopTags[i] != wantTags[i] {
			t.Errorf("JournalStats() TopTags[%d] = %v, want %v", i, got.TopTags[i], wantTags[i])
		}
	}
}

func TestJournalStatsEmpty(t *testing.T) {
	got := JournalStats(nil, refNow)
	if got.AverageMood != 0 {
		t.Errorf("JournalStats() AverageMood = %v, want 0", got.AverageMood)
	}
	if got.TopTags == nil || len(got.TopTags) != 0 {
		t.Errorf("JournalStats() TopTags = %v, want empty slice", got.TopTags)
	}
}
