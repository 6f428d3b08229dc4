package goals

import (
	"testing"

	"github.com/julianstephens/planner/internal/cli/clitest"
)

func TestGoalAddCmd(t *testing.T) {
	ctx, _ := clitest.New(t)

	cmd := &GoalAddCmd{
		Title:      "Run a marathon",
		Category:   "health",
		Milestones: []string{"5k", " ", "half"},
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}

	goals, err := ctx.Store.Goals.GetAll()
	if err != nil {
		t.Fatalf("failed to get goals: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(goals))
	}
	g := goals[0]
	if len(g.Milestones) != 2 {
		t.Errorf("expected blank milestones to be dropped, got %d", len(g.Milestones))
	}
	if g.Category != "HEALTH" {
		t.Errorf("Category = %s, want HEALTH", g.Category)
	}
	if g.CreatedAt != clitest.RefTime.UnixMilli() {
		t.Errorf("CreatedAt = %d, want %d", g.CreatedAt, clitest.RefTime.UnixMilli())
	}
}

func TestGoalAddCmd_Invalid(t *testing.T) {
	ctx, _ := clitest.New(t)

	tests := []struct {
		name string
		cmd  GoalAddCmd
	}{
		{"empty title", GoalAddCmd{Title: "  ", Category: "other"}},
		{"bad category", GoalAddCmd{Title: "x", Category: "hobbies"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestMilestoneCommands(t *testing.T) {
	ctx, _ := clitest.New(t)

	if err := (&GoalAddCmd{Title: "Learn Go", Category: "learning", Milestones: []string{"tour"}}).Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}
	goals, _ := ctx.Store.Goals.GetAll()
	goalID := goals[0].ID

	if err := (&MilestoneAddCmd{GoalID: goalID[:6], Title: "book"}).Run(ctx); err != nil {
		t.Fatalf("milestone add failed: %v", err)
	}

	goal, _, err := ctx.Store.Goals.Find(goalID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(goal.Milestones) != 2 {
		t.Fatalf("expected 2 milestones, got %d", len(goal.Milestones))
	}

	toggle := &MilestoneToggleCmd{GoalID: goalID, MilestoneID: goal.Milestones[0].ID[:8]}
	if err := toggle.Run(ctx); err != nil {
		t.Fatalf("milestone toggle failed: %v", err)
	}

	goal, _, _ = ctx.Store.Goals.Find(goalID)
	if goal.Progress != 0.5 {
		t.Errorf("Progress = %v, want 0.5", goal.Progress)
	}
	if !goal.Milestones[0].IsCompleted {
		t.Error("expected first milestone to be completed")
	}

	if err := (&MilestoneToggleCmd{GoalID: goalID, MilestoneID: "zzzz"}).Run(ctx); err == nil {
		t.Error("expected error for unknown milestone")
	}
}

func TestGoalShowAndList(t *testing.T) {
	ctx, _ := clitest.New(t)

	if err := (&GoalAddCmd{Title: "Save", Category: "finance"}).Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}
	goals, _ := ctx.Store.Goals.GetAll()

	if err := (&GoalShowCmd{ID: goals[0].ID}).Run(ctx); err != nil {
		t.Errorf("goal show failed: %v", err)
	}
	if err := (&GoalListCmd{Category: "finance"}).Run(ctx); err != nil {
		t.Errorf("goal list failed: %v", err)
	}
	if err := (&GoalListCmd{Category: "nope"}).Run(ctx); err == nil {
		t.Error("expected error for invalid category filter")
	}
}

func TestGoalDeleteCmd(t *testing.T) {
	ctx, _ := clitest.New(t)

	if err := (&GoalAddCmd{Title: "Temp", Category: "other"}).Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}
	goals, _ := ctx.Store.Goals.GetAll()

	if err := (&GoalDeleteCmd{ID: goals[0].ID, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("goal delete failed: %v", err)
	}
	goals, _ = ctx.Store.Goals.GetAll()
	if len(goals) != 0 {
		t.Errorf("expected no goals after delete, got %d", len(goals))
	}
}
