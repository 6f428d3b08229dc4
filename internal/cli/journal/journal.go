package journal

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/stats"
	"github.com/julianstephens/planner/internal/utils"
)

type JournalCmd struct {
	Write  JournalWriteCmd  `cmd:"" help:"Write or replace the entry for a day."`
	Show   JournalShowCmd   `cmd:"" help:"Show the entry for a day."`
	List   JournalListCmd   `cmd:"" help:"List recent entries."`
	Stats  JournalStatsCmd  `cmd:"" help:"Show journaling streaks, mood and top tags."`
	Delete JournalDeleteCmd `cmd:"" help:"Delete the entry for a day."`
}

type JournalWriteCmd struct {
	Content string `arg:"" help:"Entry text."`
	Title   string `help:"Entry title."`
	Mood    string `short:"m" help:"Mood (terrible|bad|okay|good|amazing)." default:"okay"`
	Tags    string `short:"t" help:"Comma-separated tags."`
	Date    string `help:"Day of the entry (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *JournalWriteCmd) Run(ctx *cli.Context) error {
	mood, err := models.ParseMood(c.Mood)
	if err != nil {
		return err
	}

	loc := ctx.Store.Location()
	day, err := cli.ParseDate(c.Date, ctx.Store.Now())
	if err != nil {
		return err
	}
	day = utils.StartOfDay(day, loc)

	existing, err := ctx.Store.JournalEntryForDate(day)
	if err != nil {
		return err
	}

	now := ctx.Store.Now().UnixMilli()
	entry := models.JournalEntry{
		ID:        uuid.New().String(),
		Date:      day,
		CreatedAt: now,
	}
	if existing != nil {
		entry = *existing
	}
	entry.Title = c.Title
	entry.Content = strings.TrimSpace(c.Content)
	entry.Mood = mood
	entry.Tags = cli.ParseTags(c.Tags)
	entry.UpdatedAt = now

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid journal entry: %w", err)
	}

	if existing != nil {
		if _, err := ctx.Store.JournalEntries.Update(entry); err != nil {
			return err
		}
		fmt.Printf("Updated journal entry for %s %s\n", utils.FormatDay(day, loc), mood.Emoji())
		return nil
	}
	if err := ctx.Store.JournalEntries.Add(entry); err != nil {
		return err
	}
	fmt.Printf("Saved journal entry for %s %s\n", utils.FormatDay(day, loc), mood.Emoji())
	return nil
}

type JournalShowCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD, today, yesterday)."`
}

func (c *JournalShowCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDate(c.Date, ctx.Store.Now())
	if err != nil {
		return err
	}
	entry, err := ctx.Store.JournalEntryForDate(day)
	if err != nil {
		return err
	}

	loc := ctx.Store.Location()
	if entry == nil {
		fmt.Printf("No journal entry for %s.\n", utils.FormatDay(day, loc))
		return nil
	}

	header := fmt.Sprintf("%s %s", utils.FormatDay(entry.Date, loc), entry.Mood.Emoji())
	if entry.Title != "" {
		header += "  " + entry.Title
	}
	body := cli.TitleStyle.Render(header) + "\n\n" + entry.Content
	if len(entry.Tags) > 0 {
		body += "\n\n" + cli.MutedStyle.Render("#"+strings.Join(entry.Tags, " #"))
	}
	fmt.Println(cli.BoxStyle.Render(body))
	return nil
}

type JournalListCmd struct {
	Days int `help:"How many days back to list." default:"30"`
}

func (c *JournalListCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	loc := ctx.Store.Location()
	today := utils.StartOfDay(ctx.Store.Now().UnixMilli(), loc)
	start := utils.AddDays(today, -(c.Days - 1), loc)
	entries, err := ctx.Store.JournalEntriesForRange(start, utils.AddDays(today, 1, loc)-1)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No journal entries found.")
		return nil
	}

	for _, e := range entries {
		preview := strings.SplitN(e.Content, "\n", 2)[0]
		if len(preview) > 50 {
			preview = preview[:47] + "..."
		}
		fmt.Printf("%s %s  %s\n", utils.FormatDay(e.Date, loc), e.Mood.Emoji(), preview)
	}
	return nil
}

type JournalStatsCmd struct{}

func (c *JournalStatsCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Store.JournalEntries.GetAll()
	if err != nil {
		return err
	}

	s := stats.JournalStats(entries, ctx.Store.Now())
	fmt.Println(cli.TitleStyle.Render("Journal"))
	fmt.Printf("  Entries:         %d (%d this month)\n", s.TotalEntries, s.EntriesThisMonth)
	fmt.Printf("  Current streak:  %d days\n", s.CurrentStreak)
	fmt.Printf("  Longest streak:  %d days\n", s.LongestStreak)
	fmt.Printf("  Average mood:    %.2f\n", s.AverageMood)
	if len(s.TopTags) > 0 {
		tags := make([]string, 0, len(s.TopTags))
		for _, tc := range s.TopTags {
			tags = append(tags, fmt.Sprintf("#%s (%d)", tc.Tag, tc.Count))
		}
		fmt.Printf("  Top tags:        %s\n", strings.Join(tags, ", "))
	}
	return nil
}

type JournalDeleteCmd struct {
	Date string `arg:"" help:"Day of the entry (YYYY-MM-DD, today, yesterday)."`
	Yes  bool   `short:"y" help:"Skip confirmation."`
}

func (c *JournalDeleteCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDate(c.Date, ctx.Store.Now())
	if err != nil {
		return err
	}
	entry, err := ctx.Store.JournalEntryForDate(day)
	if err != nil {
		return err
	}

	dayStr := utils.FormatDay(day, ctx.Store.Location())
	if entry == nil {
		return fmt.Errorf("no journal entry for %s", dayStr)
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete journal entry for %s?", dayStr), "This cannot be undone.", c.Yes)
	if err != nil || !ok {
		return err
	}
	if _, err := ctx.Store.JournalEntries.Delete(entry.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted journal entry for %s\n", dayStr)
	return nil
}
