package notes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
)

type NoteCmd struct {
	Add    NoteAddCmd    `cmd:"" help:"Add a note."`
	List   NoteListCmd   `cmd:"" help:"List notes, pinned first."`
	Show   NoteShowCmd   `cmd:"" help:"Print a note."`
	Pin    NotePinCmd    `cmd:"" help:"Pin or unpin a note."`
	Delete NoteDeleteCmd `cmd:"" help:"Delete a note."`
}

type NoteAddCmd struct {
	Title    string `arg:"" help:"Note title."`
	Content  string `short:"c" help:"Note body."`
	Tags     string `short:"t" help:"Comma-separated tags."`
	Goal     string `short:"g" help:"Linked goal ID or prefix."`
	Color    int    `help:"Color index into the note palette (0-5)." default:"0"`
	Remind   string `help:"Reminder date (YYYY-MM-DD, today, tomorrow)."`
	RemindAt string `help:"Reminder time (HH:MM). Requires --remind." default:"09:00"`
	Pinned   bool   `help:"Pin the note."`
}

func (c *NoteAddCmd) Run(ctx *cli.Context) error {
	if c.Color < 0 || c.Color >= len(models.NoteColors) {
		return fmt.Errorf("color must be between 0 and %d", len(models.NoteColors)-1)
	}

	now := ctx.Store.Now().UnixMilli()
	note := models.Note{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(c.Title),
		Content:   c.Content,
		Color:     models.NoteColors[c.Color],
		IsPinned:  c.Pinned,
		Tags:      cli.ParseTags(c.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if c.Goal != "" {
		goal, err := cli.Resolve(ctx.Store.Goals, c.Goal)
		if err != nil {
			return err
		}
		note.LinkedGoalID = goal.ID
	}

	if c.Remind != "" {
		day, err := cli.ParseDate(c.Remind, ctx.Store.Now())
		if err != nil {
			return err
		}
		at, err := cli.AtTime(day, c.RemindAt, ctx.Store.Location())
		if err != nil {
			return err
		}
		note.ReminderTime = &at
	}

	if err := note.Validate(); err != nil {
		return fmt.Errorf("invalid note: %w", err)
	}
	if err := ctx.Store.Notes.Add(note); err != nil {
		return err
	}

	fmt.Printf("Added note: %s (ID: %s)\n", note.Title, cli.ShortID(note.ID))
	return nil
}

type NoteListCmd struct {
	Tag  string `help:"Only notes carrying this tag."`
	Goal string `short:"g" help:"Only notes linked to this goal."`
}

func (c *NoteListCmd) Run(ctx *cli.Context) error {
	notes, err := ctx.Store.Notes.GetAll()
	if err != nil {
		return err
	}

	goalID := ""
	if c.Goal != "" {
		goal, err := cli.Resolve(ctx.Store.Goals, c.Goal)
		if err != nil {
			return err
		}
		goalID = goal.ID
	}

	filtered := notes[:0]
	for _, n := range notes {
		if goalID != "" && n.LinkedGoalID != goalID {
			continue
		}
		if c.Tag != "" && !hasTag(n.Tags, c.Tag) {
			continue
		}
		filtered = append(filtered, n)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].IsPinned && !filtered[j].IsPinned })

	if len(filtered) == 0 {
		fmt.Println("No notes found.")
		return nil
	}

	loc := ctx.Store.Location()
	for _, n := range filtered {
		pin := " "
		if n.IsPinned {
			pin = "📌"
		}
		reminder := ""
		if n.HasReminder() {
			reminder = cli.MutedStyle.Render(" ⏰ " + cli.FormatDateTime(*n.ReminderTime, loc))
		}
		fmt.Printf("%s %s %s%s\n", pin, cli.MutedStyle.Render(cli.ShortID(n.ID)), cli.ColorStyle(n.Color).Render(displayTitle(n)), reminder)
	}
	return nil
}

func displayTitle(n models.Note) string {
	if n.Title != "" {
		return n.Title
	}
	line := strings.SplitN(n.Content, "\n", 2)[0]
	if len(line) > 40 {
		line = line[:37] + "..."
	}
	return line
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

type NoteShowCmd struct {
	ID string `arg:"" help:"Note ID or prefix."`
}

func (c *NoteShowCmd) Run(ctx *cli.Context) error {
	note, err := cli.Resolve(ctx.Store.Notes, c.ID)
	if err != nil {
		return err
	}

	body := cli.TitleStyle.Render(displayTitle(note))
	if note.Content != "" {
		body += "\n\n" + note.Content
	}
	if len(note.Tags) > 0 {
		body += "\n\n" + cli.MutedStyle.Render("#"+strings.Join(note.Tags, " #"))
	}
	fmt.Println(cli.BoxStyle.Render(body))
	return nil
}

type NotePinCmd struct {
	ID string `arg:"" help:"Note ID or prefix."`
}

func (c *NotePinCmd) Run(ctx *cli.Context) error {
	note, err := cli.Resolve(ctx.Store.Notes, c.ID)
	if err != nil {
		return err
	}
	if _, err := ctx.Store.ToggleNotePin(note.ID); err != nil {
		return err
	}

	if note.IsPinned {
		fmt.Printf("Unpinned note: %s\n", displayTitle(note))
	} else {
		fmt.Printf("Pinned note: %s\n", displayTitle(note))
	}
	return nil
}

type NoteDeleteCmd struct {
	ID  string `arg:"" help:"Note ID or prefix."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *NoteDeleteCmd) Run(ctx *cli.Context) error {
	note, err := cli.Resolve(ctx.Store.Notes, c.ID)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete note %q?", displayTitle(note)), "This cannot be undone.", c.Yes)
	if err != nil || !ok {
		return err
	}

	if _, err := ctx.Store.Notes.Delete(note.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted note: %s\n", displayTitle(note))
	return nil
}
