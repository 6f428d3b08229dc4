package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/stats"
	"github.com/julianstephens/planner/internal/utils"
)

type StatsCmd struct {
	Dashboard DashboardCmd `cmd:"" default:"1" help:"Show the home summary."`
	Analytics AnalyticsCmd `cmd:"" help:"Show per-day trends over a range."`
}

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	goals, err := ctx.Store.Goals.GetAll()
	if err != nil {
		return err
	}
	tasks, err := ctx.Store.Tasks.GetAll()
	if err != nil {
		return err
	}
	entries, err := ctx.Store.HabitEntries.GetAll()
	if err != nil {
		return err
	}

	s := stats.DashboardStats(goals, tasks, entries, ctx.Store.Now())

	greeting := "Dashboard"
	if profile, err := ctx.Store.GetUserProfile(); err == nil && profile != nil && profile.Name != "" {
		greeting = "Hi, " + profile.Name
	}

	left := strings.Join([]string{
		cli.HeaderStyle.Render("Goals"),
		fmt.Sprintf("%d goals", s.TotalGoals),
		fmt.Sprintf("%d/%d milestones", s.CompletedMilestones, s.TotalMilestones),
		cli.ProgressBar(float64(s.OverallProgress), 16),
	}, "\n")
	middle := strings.Join([]string{
		cli.HeaderStyle.Render("Today"),
		fmt.Sprintf("%d/%d tasks done", s.TasksCompletedToday, s.TotalTasksToday),
		cli.ProgressBar(stats.TodayCompletion(s), 16),
	}, "\n")
	right := strings.Join([]string{
		cli.HeaderStyle.Render("Habits"),
		fmt.Sprintf("🔥 %d day streak", s.CurrentStreak),
		fmt.Sprintf("best %d days", s.LongestStreak),
	}, "\n")

	fmt.Println(cli.TitleStyle.Render(greeting))
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top,
		cli.BoxStyle.Render(left), cli.BoxStyle.Render(middle), cli.BoxStyle.Render(right)))
	return nil
}

type AnalyticsCmd struct {
	Days int    `help:"Number of days ending today." default:"7"`
	From string `help:"First day (YYYY-MM-DD). Overrides --days."`
	To   string `help:"Last day (YYYY-MM-DD)." default:"today"`
}

func (c *AnalyticsCmd) Run(ctx *cli.Context) error {
	now := ctx.Store.Now()
	loc := ctx.Store.Location()

	to, err := cli.ParseDate(c.To, now)
	if err != nil {
		return err
	}
	end := utils.AddDays(utils.StartOfDay(to, loc), 1, loc) - 1

	var start int64
	if c.From != "" {
		from, err := cli.ParseDate(c.From, now)
		if err != nil {
			return err
		}
		start = utils.StartOfDay(from, loc)
	} else {
		if c.Days < 1 {
			return fmt.Errorf("days must be at least 1")
		}
		start = utils.AddDays(utils.StartOfDay(to, loc), -(c.Days - 1), loc)
	}
	if end < start {
		return fmt.Errorf("range end must not precede its start")
	}

	in := stats.AnalyticsInput{}
	if in.Tasks, err = ctx.Store.Tasks.GetAll(); err != nil {
		return err
	}
	if in.Habits, err = ctx.Store.Habits.GetAll(); err != nil {
		return err
	}
	if in.HabitEntries, err = ctx.Store.HabitEntriesForRange(start, end); err != nil {
		return err
	}
	if in.JournalEntries, err = ctx.Store.JournalEntriesForRange(start, end); err != nil {
		return err
	}
	if in.Transactions, err = ctx.Store.TransactionsForRange(start, end); err != nil {
		return err
	}

	data := stats.Analytics(start, end, loc, in)
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Analytics %s → %s", utils.FormatDay(start, loc), utils.FormatDay(end, loc))))
	fmt.Printf("Habit completion: %s\n\n", cli.ProgressBar(data.HabitCompletionRate, 20))
	printSeries("Tasks completed", data.TaskCompletions, fmt.Sprintf("total %.0f", sum(data.TaskCompletions)))
	printSeries("Spending", data.Spending, fmt.Sprintf("total %.2f", sum(data.Spending)))
	moodAvg := 0.0
	if len(data.MoodTrend) > 0 {
		moodAvg = sum(data.MoodTrend) / float64(len(data.MoodTrend))
	}
	printSeries("Mood (0-4)", data.MoodTrend, fmt.Sprintf("avg %.1f", moodAvg))
	return nil
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// Sparkline scales values onto eight block heights.
func Sparkline(points []models.DayValue) string {
	maxVal := 0.0
	for _, p := range points {
		maxVal = math.Max(maxVal, p.Value)
	}
	var b strings.Builder
	for _, p := range points {
		idx := 0
		if maxVal > 0 {
			idx = int(math.Round(p.Value / maxVal * float64(len(sparks)-1)))
		}
		b.WriteRune(sparks[idx])
	}
	return b.String()
}

func sum(points []models.DayValue) float64 {
	total := 0.0
	for _, p := range points {
		total += p.Value
	}
	return total
}

func printSeries(title string, points []models.DayValue, summary string) {
	fmt.Println(cli.HeaderStyle.Render(title))
	if len(points) == 0 {
		fmt.Println("  (no data)")
	} else {
		fmt.Printf("  %s  %s\n", cli.SuccessStyle.Render(Sparkline(points)), summary)
	}
	fmt.Println()
}
