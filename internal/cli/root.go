package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/planner/internal/backup"
	"github.com/julianstephens/planner/internal/cloudsync"
	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/remote"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/utils"
)

type Context struct {
	Store     *storage.Store
	KV        storage.KV
	Config    *config.Config
	ConfigDir string
	// OpenRemote builds the configured blob store. Tests swap it for a fake.
	OpenRemote func(ctx context.Context) (remote.BlobStore, error)
}

// Backups returns the backup manager for the active config directory.
func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Store, c.ConfigDir)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	if _, err := c.Backups().CreateBackup(ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Orchestrator wires the configured remote into a sync orchestrator. The
// returned func closes the remote. A "none" remote yields an orchestrator
// whose syncs are all skipped.
func (c *Context) Orchestrator(ctx context.Context) (*cloudsync.Orchestrator, func(), error) {
	var blob remote.BlobStore
	if c.OpenRemote != nil {
		b, err := c.OpenRemote(ctx)
		if err != nil && !errors.Is(err, remote.ErrNotConfigured) {
			return nil, nil, fmt.Errorf("failed to open remote: %w", err)
		}
		blob = b
	}

	timeout := constants.DefaultRemoteTimeout
	if c.Config != nil && c.Config.Remote.Timeout > 0 {
		timeout = c.Config.Remote.Timeout
	}

	orch := cloudsync.New(c.Store, blob, cloudsync.Options{
		Timeout: timeout,
		Lock:    cloudsync.NewLockfile(c.ConfigDir),
	})
	closeFn := func() {
		if blob != nil {
			if err := blob.Close(); err != nil {
				logger.Warn("Failed to close remote", "error", err)
			}
		}
	}
	return orch, closeFn, nil
}

// Bootstrap runs on every start. With startupPull set, a device that has not
// finished onboarding tries one restore each time. An unusable remote falls
// back to the first-run flow, which seeds defaults once per device.
func (c *Context) Bootstrap(ctx context.Context, startupPull bool) (cloudsync.BootstrapResult, error) {
	if startupPull {
		orch, closeFn, err := c.Orchestrator(ctx)
		if err == nil {
			defer closeFn()
			return orch.Bootstrap(ctx)
		}
		logger.Warn("Startup sync unavailable", "error", err)
	}

	seeded, err := c.Store.SeedDefaults()
	if err != nil {
		return cloudsync.BootstrapResult{}, fmt.Errorf("failed to seed defaults: %w", err)
	}
	return cloudsync.BootstrapResult{Seeded: seeded}, nil
}

// ParseDate resolves "today", "tomorrow", "yesterday", YYYY-MM-DD or
// "YYYY-MM-DD HH:MM" relative to now's location. Date-only values resolve
// to the start of that day.
func ParseDate(s string, now time.Time) (int64, error) {
	loc := now.Location()
	today := utils.StartOfDay(now.UnixMilli(), loc)

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return utils.AddDays(today, 1, loc), nil
	case "yesterday":
		return utils.AddDays(today, -1, loc), nil
	}

	if t, err := time.ParseInLocation(constants.DateTimeFormat, s, loc); err == nil {
		return t.UnixMilli(), nil
	}
	t, err := utils.ParseDateInLocation(s, loc)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q (expected YYYY-MM-DD, \"YYYY-MM-DD HH:MM\", today, tomorrow or yesterday)", s)
	}
	return t.UnixMilli(), nil
}

// AtTime moves a day start to the HH:MM wall clock time on that day.
func AtTime(day int64, clock string, loc *time.Location) (int64, error) {
	t, err := utils.CombineDateAndTime(utils.FormatDay(day, loc), clock, loc)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", clock)
	}
	return t.UnixMilli(), nil
}

// ParseTags splits a comma-separated list, trimming blanks.
func ParseTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ShortID is the display form of a record id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Resolve finds the record whose id equals ref or uniquely starts with it.
func Resolve[T models.Record](c *storage.Collection[T], ref string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("id cannot be empty")
	}

	items, err := c.GetAll()
	if err != nil {
		return zero, err
	}

	var matches []T
	for _, item := range items {
		if item.GetID() == ref {
			return item, nil
		}
		if strings.HasPrefix(item.GetID(), ref) {
			matches = append(matches, item)
		}
	}

	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("no record with id %q in %s", ref, c.Key())
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// Confirm asks a yes/no question unless assumeYes is set.
func Confirm(title, description string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeBase())

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return confirmed, nil
}

// FormatDateTime renders epoch milliseconds as yyyy-MM-dd HH:mm in loc.
func FormatDateTime(ms int64, loc *time.Location) string {
	return utils.FromMillis(ms, loc).Format(constants.DateTimeFormat)
}
