package find

import (
	"testing"
	"time"

	"github.com/julianstephens/planner/internal/cli/clitest"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/search"
)

func TestSearchQueryCmd(t *testing.T) {
	ctx, _ := clitest.New(t)

	due := clitest.RefTime.UnixMilli()
	if err := ctx.Store.SaveTask(models.Task{ID: "t1", Title: "Plan trip", Priority: models.PriorityLow, DueDate: &due}); err != nil {
		t.Fatalf("save task failed: %v", err)
	}
	if err := ctx.Store.Notes.Add(models.Note{ID: "n1", Title: "Trip packing list"}); err != nil {
		t.Fatalf("add note failed: %v", err)
	}

	if err := (&SearchQueryCmd{Text: []string{"trip"}}).Run(ctx); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if err := (&SearchQueryCmd{Text: []string{"TRIP"}, Types: []string{"task"}, From: "today", To: "today"}).Run(ctx); err != nil {
		t.Fatalf("filtered search failed: %v", err)
	}
	if err := (&SearchQueryCmd{Text: []string{"  "}}).Run(ctx); err == nil {
		t.Error("expected error for blank query")
	}
	if err := (&SearchQueryCmd{Text: []string{"trip"}, Types: []string{"widget"}}).Run(ctx); err == nil {
		t.Error("expected error for unknown type")
	}

	recent, err := ctx.Store.RecentSearches()
	if err != nil {
		t.Fatalf("recent searches failed: %v", err)
	}
	if len(recent) == 0 || recent[0] != "TRIP" {
		t.Errorf("RecentSearches() = %v, want TRIP first", recent)
	}

	if err := (&SearchRecentCmd{}).Run(ctx); err != nil {
		t.Errorf("search recent failed: %v", err)
	}
	if err := (&SearchClearCmd{}).Run(ctx); err != nil {
		t.Fatalf("search clear failed: %v", err)
	}
	recent, _ = ctx.Store.RecentSearches()
	if len(recent) != 0 {
		t.Errorf("expected recent searches cleared, got %v", recent)
	}
}

func TestSearchQueryFilters(t *testing.T) {
	ctx, _ := clitest.New(t)

	cmd := &SearchQueryCmd{Types: []string{"note", "Journal"}, From: "2026-10-01", To: "2026-10-17"}
	f, err := cmd.filters(ctx)
	if err != nil {
		t.Fatalf("filters() error = %v", err)
	}
	if len(f.Types) != 2 || f.Types[0] != search.TypeNote || f.Types[1] != search.TypeJournal {
		t.Errorf("Types = %v", f.Types)
	}
	wantStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	wantEnd := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC).UnixMilli() - 1
	if f.Start != wantStart || f.End != wantEnd {
		t.Errorf("range = [%d, %d], want [%d, %d]", f.Start, f.End, wantStart, wantEnd)
	}
}
