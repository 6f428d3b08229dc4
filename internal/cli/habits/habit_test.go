package habits

import (
	"testing"
	"time"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/cli/clitest"
)

func TestHabitAddCmd(t *testing.T) {
	ctx, _ := clitest.New(t)

	if err := (&HabitAddCmd{Name: "Read"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	if err := (&HabitAddCmd{Name: "read"}).Run(ctx); err == nil {
		t.Error("expected duplicate name to be rejected")
	}
	if err := (&HabitAddCmd{Name: "  "}).Run(ctx); err == nil {
		t.Error("expected empty name to be rejected")
	}

	habits, _ := ctx.Store.Habits.GetAll()
	if len(habits) != 1 {
		t.Errorf("expected 1 habit, got %d", len(habits))
	}
}

func TestHabitMarkCmd(t *testing.T) {
	ctx, _ := clitest.New(t)

	if err := (&HabitAddCmd{Name: "Stretch"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	if err := (&HabitMarkCmd{Name: "stretch", Date: "today", Note: "10 min"}).Run(ctx); err != nil {
		t.Fatalf("habit mark failed: %v", err)
	}
	entries, _ := ctx.Store.HabitEntries.GetAll()
	if len(entries) != 1 || !entries[0].IsCompleted || entries[0].Notes != "10 min" {
		t.Fatalf("unexpected entries after mark: %+v", entries)
	}

	// Marking twice on the same day toggles the single entry off.
	if err := (&HabitMarkCmd{Name: "Stretch", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("habit mark failed: %v", err)
	}
	entries, _ = ctx.Store.HabitEntries.GetAll()
	if len(entries) != 1 || entries[0].IsCompleted {
		t.Errorf("expected one uncompleted entry, got %+v", entries)
	}

	if err := (&HabitMarkCmd{Name: "Nope", Date: "today"}).Run(ctx); err == nil {
		t.Error("expected error for unknown habit")
	}
}

func TestHabitViews(t *testing.T) {
	ctx, clock := clitest.New(t)

	if err := (&HabitAddCmd{Name: "Walk"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	for _, date := range []string{"2026-10-15", "2026-10-16", "today"} {
		if err := (&HabitMarkCmd{Name: "Walk", Date: date}).Run(ctx); err != nil {
			t.Fatalf("habit mark failed: %v", err)
		}
	}
	clock.Advance(time.Hour)

	views := []struct {
		name string
		cmd  interface{ Run(*cli.Context) error }
	}{
		{"list", &HabitListCmd{}},
		{"today", &HabitTodayCmd{}},
		{"log", &HabitLogCmd{Days: 7}},
		{"log one", &HabitLogCmd{Days: 3, Habit: "walk"}},
		{"stats", &HabitStatsCmd{Name: "Walk"}},
		{"calendar", &HabitCalendarCmd{Name: "Walk", Month: "2026-10"}},
	}
	for _, v := range views {
		if err := v.cmd.Run(ctx); err != nil {
			t.Errorf("habit %s failed: %v", v.name, err)
		}
	}

	if err := (&HabitCalendarCmd{Name: "Walk", Month: "10/2026"}).Run(ctx); err == nil {
		t.Error("expected error for bad month")
	}
	if err := (&HabitLogCmd{Days: 0}).Run(ctx); err == nil {
		t.Error("expected error for zero days")
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx, _ := clitest.New(t)

	if err := (&HabitAddCmd{Name: "Floss"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	if err := (&HabitMarkCmd{Name: "Floss", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("habit mark failed: %v", err)
	}
	if err := (&HabitDeleteCmd{Name: "Floss", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("habit delete failed: %v", err)
	}

	habits, _ := ctx.Store.Habits.GetAll()
	entries, _ := ctx.Store.HabitEntries.GetAll()
	if len(habits) != 0 || len(entries) != 0 {
		t.Errorf("expected habit and entries removed, got %d habits %d entries", len(habits), len(entries))
	}
}
