package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/stats"
	"github.com/julianstephens/planner/internal/utils"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Mark     HabitMarkCmd     `cmd:"" help:"Toggle a habit for a day."`
	Today    HabitTodayCmd    `cmd:"" help:"Show today's habit status."`
	Log      HabitLogCmd      `cmd:"" help:"Show habit log (ASCII history)."`
	Stats    HabitStatsCmd    `cmd:"" help:"Show streaks and completion rate."`
	Calendar HabitCalendarCmd `cmd:"" help:"Show a month of entries for one habit."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit and its entries."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `short:"d" help:"Habit description."`
	Goal        string `short:"g" help:"Linked goal ID or prefix."`
	Icon        string `help:"Icon name." default:"check"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(c.Name)
	if _, err := findHabit(ctx, name); err == nil {
		return fmt.Errorf("habit with name %q already exists", name)
	}

	now := ctx.Store.Now().UnixMilli()
	habit := models.Habit{
		ID:          uuid.New().String(),
		Title:       name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       0xFF4CAF50,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Goal != "" {
		goal, err := cli.Resolve(ctx.Store.Goals, c.Goal)
		if err != nil {
			return err
		}
		habit.GoalID = goal.ID
	}

	if err := habit.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.Habits.Add(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s\n", habit.Title)
	return nil
}

// findHabit matches a habit by title (case-insensitive) or by id prefix.
func findHabit(ctx *cli.Context, ref string) (models.Habit, error) {
	habits, err := ctx.Store.Habits.GetAll()
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if strings.EqualFold(h.Title, ref) {
			return h, nil
		}
	}
	return cli.Resolve(ctx.Store.Habits, ref)
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.Habits.GetAll()
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	entries, err := ctx.Store.HabitEntries.GetAll()
	if err != nil {
		return err
	}
	now := ctx.Store.Now()
	for _, habit := range habits {
		s := stats.HabitStats(habit, entries, now)
		fmt.Printf("%s  %-24s %s\n",
			cli.MutedStyle.Render(cli.ShortID(habit.ID)),
			cli.ColorStyle(habit.Color).Render(habit.Title),
			cli.MutedStyle.Render(fmt.Sprintf("🔥 %d", s.CurrentStreak)))
	}
	return nil
}

type HabitMarkCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
	Date string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
	Note string `help:"Optional note stored on the entry."`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	day, err := cli.ParseDate(c.Date, ctx.Store.Now())
	if err != nil {
		return err
	}

	entry, err := ctx.Store.ToggleHabitEntry(habit.ID, day)
	if err != nil {
		return err
	}

	if c.Note != "" {
		entry.Notes = c.Note
		if err := ctx.Store.UpsertHabitEntry(entry); err != nil {
			return err
		}
	}

	dayStr := utils.FormatDay(day, ctx.Store.Location())
	if entry.IsCompleted {
		fmt.Printf("Marked habit %q for %s\n", habit.Title, dayStr)
	} else {
		fmt.Printf("Unmarked habit %q for %s\n", habit.Title, dayStr)
	}
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.Habits.GetAll()
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	now := ctx.Store.Now()
	entries, err := ctx.Store.HabitEntriesForDate(now.UnixMilli())
	if err != nil {
		return err
	}

	done := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsCompleted {
			done[entry.HabitID] = true
		}
	}

	fmt.Printf("Habits for %s:\n\n", utils.FormatDay(now.UnixMilli(), now.Location()))
	recorded := 0
	for _, habit := range habits {
		status := "[ ]"
		if done[habit.ID] {
			status = "[x]"
			recorded++
		}
		fmt.Printf("%s %s\n", status, habit.Title)
	}

	fmt.Printf("\nRecorded: %d/%d\n", recorded, len(habits))
	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	habits, err := ctx.Store.Habits.GetAll()
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	if c.Habit != "" {
		h, err := findHabit(ctx, c.Habit)
		if err != nil {
			return fmt.Errorf("habit %q not found", c.Habit)
		}
		habits = []models.Habit{h}
	}

	loc := ctx.Store.Location()
	today := utils.StartOfDay(ctx.Store.Now().UnixMilli(), loc)
	start := utils.AddDays(today, -(c.Days - 1), loc)
	entries, err := ctx.Store.HabitEntriesForRange(start, utils.AddDays(today, 1, loc)-1)
	if err != nil {
		return err
	}

	done := make(map[string]map[int64]bool)
	for _, e := range entries {
		if !e.IsCompleted {
			continue
		}
		if done[e.HabitID] == nil {
			done[e.HabitID] = make(map[int64]bool)
		}
		done[e.HabitID][utils.StartOfDay(e.Date, loc)] = true
	}

	fmt.Printf("Habit log (last %d days):\n\n", c.Days)

	const nameWidth = 20
	fmt.Printf("%-*s", nameWidth, "Habit")
	for i := 0; i < c.Days; i++ {
		fmt.Printf(" %5s", utils.FromMillis(utils.AddDays(start, i, loc), loc).Format("01/02"))
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", nameWidth+6*c.Days))

	for _, habit := range habits {
		name := habit.Title
		if len(name) > nameWidth-1 {
			name = name[:nameWidth-4] + "..."
		}
		fmt.Printf("%-*s", nameWidth, name)
		for i := 0; i < c.Days; i++ {
			mark := "  .  "
			if done[habit.ID][utils.AddDays(start, i, loc)] {
				mark = "  ■  "
			}
			fmt.Printf(" %s", mark)
		}
		fmt.Println()
	}
	return nil
}

type HabitStatsCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}
	entries, err := ctx.Store.HabitEntriesForHabit(habit.ID)
	if err != nil {
		return err
	}

	loc := ctx.Store.Location()
	s := stats.HabitStats(habit, entries, ctx.Store.Now())
	fmt.Println(cli.TitleStyle.Render(habit.Title))
	fmt.Printf("  Current streak:  %d days\n", s.CurrentStreak)
	fmt.Printf("  Longest streak:  %d days\n", s.LongestStreak)
	fmt.Printf("  Completions:     %d of %d days\n", s.TotalCompletions, s.TotalDays)
	fmt.Printf("  Completion rate: %s\n", cli.ProgressBar(s.CompletionRate, 20))
	if s.LastCompletedDate != nil {
		fmt.Printf("  Last completed:  %s\n", utils.FormatDay(*s.LastCompletedDate, loc))
	}
	return nil
}

type HabitCalendarCmd struct {
	Name  string `arg:"" help:"Habit name or ID."`
	Month string `help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *HabitCalendarCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	loc := ctx.Store.Location()
	month := ctx.Store.Now()
	if c.Month != "" {
		month, err = time.ParseInLocation("2006-01", c.Month, loc)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM)", c.Month)
		}
	}

	entries, err := ctx.Store.HabitEntriesForHabit(habit.ID)
	if err != nil {
		return err
	}
	days := stats.HabitCalendar(habit.ID, entries, month.Year(), month.Month(), loc)

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	fmt.Printf("%s  %s\n\n", cli.TitleStyle.Render(habit.Title), first.Format("January 2006"))
	fmt.Println(" Mo  Tu  We  Th  Fr  Sa  Su")

	offset := (int(first.Weekday()) + 6) % 7
	fmt.Print(strings.Repeat("    ", offset))
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%3d", d.Day())
		if e, ok := days[d.UnixMilli()]; ok && e.IsCompleted {
			cell = cli.SuccessStyle.Render(fmt.Sprintf("%3s", "■"))
		}
		fmt.Print(cell + " ")
		if d.Weekday() == time.Sunday {
			fmt.Println()
		}
	}
	fmt.Println()
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
	Yes  bool   `short:"y" help:"Skip confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete habit %q?", habit.Title), "All of its entries are deleted too.", c.Yes)
	if err != nil || !ok {
		return err
	}

	if _, err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", habit.Title)
	return nil
}
