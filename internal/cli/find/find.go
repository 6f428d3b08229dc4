package find

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/search"
	"github.com/julianstephens/planner/internal/utils"
)

type SearchCmd struct {
	Query  SearchQueryCmd  `cmd:"" default:"withargs" help:"Search every collection."`
	Recent SearchRecentCmd `cmd:"" help:"List recent searches."`
	Clear  SearchClearCmd  `cmd:"" help:"Forget recent searches."`
}

type SearchQueryCmd struct {
	Text  []string `arg:"" help:"Search text."`
	Types []string `short:"t" name:"type" help:"Limit to these types (goal, milestone, task, note, event, reminder, habit, journal, finance)." sep:","`
	From  string   `help:"Only dated records on or after this day (YYYY-MM-DD)."`
	To    string   `help:"Only dated records on or before this day (YYYY-MM-DD)."`
	Pick  bool     `help:"Choose a result interactively and print its details."`
}

func (c *SearchQueryCmd) filters(ctx *cli.Context) (search.Filters, error) {
	var f search.Filters
	for _, raw := range c.Types {
		t, err := search.ParseType(raw)
		if err != nil {
			return f, err
		}
		f.Types = append(f.Types, t)
	}

	now := ctx.Store.Now()
	loc := ctx.Store.Location()
	if c.From != "" {
		from, err := cli.ParseDate(c.From, now)
		if err != nil {
			return f, err
		}
		f.Start = utils.StartOfDay(from, loc)
	}
	if c.To != "" {
		to, err := cli.ParseDate(c.To, now)
		if err != nil {
			return f, err
		}
		f.End = utils.AddDays(utils.StartOfDay(to, loc), 1, loc) - 1
	}
	return f, nil
}

func (c *SearchQueryCmd) Run(ctx *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Text, " "))
	if query == "" {
		return fmt.Errorf("search text cannot be empty")
	}

	filters, err := c.filters(ctx)
	if err != nil {
		return err
	}

	results, err := search.New(ctx.Store).Search(query, filters)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Printf("No results for %q.\n", query)
		return nil
	}

	if c.Pick {
		return pick(ctx, results)
	}

	var current search.ResultType
	for _, r := range results {
		if r.Type != current {
			if current != "" {
				fmt.Println()
			}
			current = r.Type
			fmt.Println(cli.HeaderStyle.Render(strings.ToLower(string(r.Type))))
		}
		fmt.Printf("  %s %s %s\n", cli.MutedStyle.Render(cli.ShortID(r.ID)), r.Title, cli.MutedStyle.Render(r.Subtitle))
	}
	fmt.Printf("\n%d results\n", len(results))
	return nil
}

func pick(ctx *cli.Context, results []search.Result) error {
	options := make([]huh.Option[int], 0, len(results))
	for i, r := range results {
		options = append(options, huh.NewOption(fmt.Sprintf("[%s] %s", strings.ToLower(string(r.Type)), r.Title), i))
	}

	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Results").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return fmt.Errorf("selection failed: %w", err)
	}

	printResult(ctx, results[choice])
	return nil
}

func printResult(ctx *cli.Context, r search.Result) {
	lines := []string{
		cli.TitleStyle.Render(r.Title),
		fmt.Sprintf("Type: %s", strings.ToLower(string(r.Type))),
		fmt.Sprintf("ID:   %s", r.ID),
	}
	if r.Subtitle != "" {
		lines = append(lines, r.Subtitle)
	}
	if r.Date != 0 {
		lines = append(lines, "Date: "+cli.FormatDateTime(r.Date, ctx.Store.Location()))
	}
	if r.LinkedGoalID != "" {
		lines = append(lines, "Goal: "+r.LinkedGoalID)
	}
	fmt.Println(cli.BoxStyle.Render(strings.Join(lines, "\n")))
}

type SearchRecentCmd struct{}

func (c *SearchRecentCmd) Run(ctx *cli.Context) error {
	recent, err := ctx.Store.RecentSearches()
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		fmt.Println("No recent searches.")
		return nil
	}
	for _, q := range recent {
		fmt.Printf("  %s\n", q)
	}
	return nil
}

type SearchClearCmd struct{}

func (c *SearchClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.ClearRecentSearches(); err != nil {
		return err
	}
	fmt.Println("Recent searches cleared.")
	return nil
}
