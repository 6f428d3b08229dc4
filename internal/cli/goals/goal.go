package goals

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
)

type GoalCmd struct {
	Add       GoalAddCmd       `cmd:"" help:"Add a new goal."`
	List      GoalListCmd      `cmd:"" help:"List goals with progress."`
	Show      GoalShowCmd      `cmd:"" help:"Show a goal with its milestones and linked items."`
	Milestone MilestoneCmd     `cmd:"" help:"Manage milestones."`
	Delete    GoalDeleteCmd    `cmd:"" help:"Delete a goal."`
	Category  GoalCategoryList `cmd:"" help:"List goal categories."`
}

type GoalAddCmd struct {
	Title       string   `arg:"" help:"Goal title."`
	Description string   `short:"d" help:"Goal description."`
	Category    string   `short:"c" help:"Category (health|career|learning|finance|personal|relationships|other)." default:"other"`
	Milestones  []string `short:"m" help:"Milestone titles, comma separated." sep:","`
	Icon        string   `help:"Icon name." default:"flag"`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	category, err := models.ParseGoalCategory(c.Category)
	if err != nil {
		return err
	}

	now := ctx.Store.Now().UnixMilli()
	goal := models.Goal{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Category:    category,
		Color:       categoryColors[category],
		Icon:        c.Icon,
		Milestones:  []models.Milestone{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, title := range c.Milestones {
		if title = strings.TrimSpace(title); title != "" {
			goal.Milestones = append(goal.Milestones, models.Milestone{ID: uuid.New().String(), Title: title})
		}
	}

	if err := goal.Validate(); err != nil {
		return fmt.Errorf("invalid goal: %w", err)
	}
	if err := ctx.Store.Goals.Add(goal); err != nil {
		return err
	}

	fmt.Printf("Added goal: %s (ID: %s, %d milestones)\n", goal.Title, cli.ShortID(goal.ID), len(goal.Milestones))
	return nil
}

var categoryColors = map[models.GoalCategory]int64{
	models.GoalCategoryHealth:    0xFF4CAF50,
	models.GoalCategoryCareer:    0xFF2196F3,
	models.GoalCategoryLearning:  0xFF9C27B0,
	models.GoalCategoryFinance:   0xFFFFC107,
	models.GoalCategoryPersonal:  0xFFFF5722,
	models.GoalCategoryRelations: 0xFFE91E63,
	models.GoalCategoryOther:     0xFF607D8B,
}

type GoalListCmd struct {
	Category string `short:"c" help:"Only show goals in this category."`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	goals, err := ctx.Store.Goals.GetAll()
	if err != nil {
		return err
	}

	if c.Category != "" {
		category, err := models.ParseGoalCategory(c.Category)
		if err != nil {
			return err
		}
		filtered := goals[:0]
		for _, g := range goals {
			if g.Category == category {
				filtered = append(filtered, g)
			}
		}
		goals = filtered
	}

	if len(goals) == 0 {
		fmt.Println("No goals found.")
		return nil
	}

	for _, g := range goals {
		fmt.Printf("%s  %-30s %s  %s\n",
			cli.MutedStyle.Render(cli.ShortID(g.ID)),
			cli.ColorStyle(g.Color).Render(g.Title),
			cli.ProgressBar(float64(g.Progress), 20),
			cli.MutedStyle.Render(fmt.Sprintf("%d/%d %s", g.CompletedMilestones(), len(g.Milestones), strings.ToLower(string(g.Category)))))
	}
	return nil
}

type GoalShowCmd struct {
	ID string `arg:"" help:"Goal ID or prefix."`
}

func (c *GoalShowCmd) Run(ctx *cli.Context) error {
	goal, err := cli.Resolve(ctx.Store.Goals, c.ID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(goal.Title))
	if goal.Description != "" {
		fmt.Println(goal.Description)
	}
	fmt.Printf("Category: %s\n", goal.Category)
	fmt.Printf("Progress: %s\n\n", cli.ProgressBar(float64(goal.Progress), 30))

	fmt.Println(cli.HeaderStyle.Render("Milestones"))
	if len(goal.Milestones) == 0 {
		fmt.Println("  (none)")
	}
	for _, m := range goal.Milestones {
		fmt.Printf("  %s %s %s\n", cli.Check(m.IsCompleted), cli.MutedStyle.Render(cli.ShortID(m.ID)), m.Title)
	}

	tasks, err := ctx.Store.TasksForGoal(goal.ID)
	if err != nil {
		return err
	}
	notes, err := ctx.Store.NotesForGoal(goal.ID)
	if err != nil {
		return err
	}

	if len(tasks) > 0 {
		fmt.Println()
		fmt.Println(cli.HeaderStyle.Render("Tasks"))
		for _, t := range tasks {
			fmt.Printf("  %s %s\n", cli.Check(t.IsCompleted), t.Title)
		}
	}
	if len(notes) > 0 {
		fmt.Println()
		fmt.Println(cli.HeaderStyle.Render("Notes"))
		for _, n := range notes {
			fmt.Printf("  • %s\n", n.Title)
		}
	}
	return nil
}

type MilestoneCmd struct {
	Add    MilestoneAddCmd    `cmd:"" help:"Add a milestone to a goal."`
	Toggle MilestoneToggleCmd `cmd:"" help:"Toggle a milestone's completion."`
}

type MilestoneAddCmd struct {
	GoalID string `arg:"" help:"Goal ID or prefix."`
	Title  string `arg:"" help:"Milestone title."`
}

func (c *MilestoneAddCmd) Run(ctx *cli.Context) error {
	goal, err := cli.Resolve(ctx.Store.Goals, c.GoalID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("milestone title cannot be empty")
	}

	goal.Milestones = append(goal.Milestones, models.Milestone{ID: uuid.New().String(), Title: c.Title})
	goal.Progress = goal.ComputeProgress()
	goal.UpdatedAt = ctx.Store.Now().UnixMilli()
	if _, err := ctx.Store.Goals.Update(goal); err != nil {
		return err
	}

	fmt.Printf("Added milestone %q to %s (progress now %.0f%%)\n", c.Title, goal.Title, goal.Progress*100)
	return nil
}

type MilestoneToggleCmd struct {
	GoalID      string `arg:"" help:"Goal ID or prefix."`
	MilestoneID string `arg:"" help:"Milestone ID or prefix."`
}

func (c *MilestoneToggleCmd) Run(ctx *cli.Context) error {
	goal, err := cli.Resolve(ctx.Store.Goals, c.GoalID)
	if err != nil {
		return err
	}

	var milestoneID string
	for _, m := range goal.Milestones {
		if strings.HasPrefix(m.ID, c.MilestoneID) {
			if milestoneID != "" {
				return fmt.Errorf("milestone id %q is ambiguous", c.MilestoneID)
			}
			milestoneID = m.ID
		}
	}
	if milestoneID == "" {
		return fmt.Errorf("no milestone with id %q in goal %s", c.MilestoneID, goal.Title)
	}

	changed, err := ctx.Store.ToggleMilestone(goal.ID, milestoneID)
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("goal %s no longer exists", goal.ID)
	}

	updated, _, err := ctx.Store.Goals.Find(goal.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Progress for %s: %s\n", updated.Title, cli.ProgressBar(float64(updated.Progress), 20))
	return nil
}

type GoalDeleteCmd struct {
	ID  string `arg:"" help:"Goal ID or prefix."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	goal, err := cli.Resolve(ctx.Store.Goals, c.ID)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete goal %q?", goal.Title), "Linked tasks and notes are kept but lose their goal link.", c.Yes)
	if err != nil || !ok {
		return err
	}

	if _, err := ctx.Store.Goals.Delete(goal.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted goal: %s\n", goal.Title)
	return nil
}

type GoalCategoryList struct{}

func (c *GoalCategoryList) Run(ctx *cli.Context) error {
	for category, color := range categoryColors {
		fmt.Printf("  %s\n", cli.ColorStyle(color).Render(strings.ToLower(string(category))))
	}
	return nil
}
