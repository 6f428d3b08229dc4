// Package backup converts the local store to and from a single versioned JSON
// envelope and manages backup files on disk.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage"
)

// CurrentVersion is the envelope version written by Export and the newest
// version Import accepts.
const CurrentVersion = 1

var (
	ErrInvalidPayload     = errors.New("invalid backup payload")
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// Envelope is the export wire format. A nil field was absent from the payload
// and leaves the matching local data untouched on import.
type Envelope struct {
	Version            int                     `json:"version"`
	ExportedAt         int64                   `json:"exportedAt"`
	Goals              *[]models.Goal          `json:"goals,omitempty"`
	Notes              *[]models.Note          `json:"notes,omitempty"`
	Tasks              *[]models.Task          `json:"tasks,omitempty"`
	Events             *[]models.CalendarEvent `json:"events,omitempty"`
	HabitEntries       *[]models.HabitEntry    `json:"habitEntries,omitempty"`
	Settings           *models.AppSettings     `json:"settings,omitempty"`
	Reminders          *[]models.Reminder      `json:"reminders,omitempty"`
	Habits             *[]models.Habit         `json:"habits,omitempty"`
	JournalEntries     *[]models.JournalEntry  `json:"journalEntries,omitempty"`
	Transactions       *[]models.Transaction   `json:"transactions,omitempty"`
	Budgets            *[]models.Budget        `json:"budgets,omitempty"`
	FinanceLogs        *[]models.FinanceLog    `json:"financeLogs,omitempty"`
	UserProfile        *models.UserProfile     `json:"userProfile,omitempty"`
	OnboardingComplete *bool                   `json:"onboardingComplete,omitempty"`
}

func loadInto[T models.Record](c *storage.Collection[T], dst **[]T) func() error {
	return func() error {
		items, err := c.GetAll()
		if err != nil {
			return err
		}
		*dst = &items
		return nil
	}
}

// Export snapshots every collection concurrently. It never writes to store.
func Export(ctx context.Context, store *storage.Store) (*Envelope, error) {
	env := &Envelope{
		Version:    CurrentVersion,
		ExportedAt: store.Now().UnixMilli(),
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(loadInto(store.Goals, &env.Goals))
	g.Go(loadInto(store.Notes, &env.Notes))
	g.Go(loadInto(store.Tasks, &env.Tasks))
	g.Go(loadInto(store.Events, &env.Events))
	g.Go(loadInto(store.HabitEntries, &env.HabitEntries))
	g.Go(loadInto(store.Reminders, &env.Reminders))
	g.Go(loadInto(store.Habits, &env.Habits))
	g.Go(loadInto(store.JournalEntries, &env.JournalEntries))
	g.Go(loadInto(store.Transactions, &env.Transactions))
	g.Go(loadInto(store.Budgets, &env.Budgets))
	g.Go(loadInto(store.FinanceLogs, &env.FinanceLogs))
	g.Go(func() error {
		settings, err := store.GetSettings()
		if err != nil {
			return err
		}
		env.Settings = &settings
		return nil
	})
	g.Go(func() error {
		profile, err := store.GetUserProfile()
		if err != nil {
			return err
		}
		env.UserProfile = profile
		return nil
	})
	g.Go(func() error {
		done, err := store.IsOnboardingComplete()
		if err != nil {
			return err
		}
		env.OnboardingComplete = &done
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to export data: %w", err)
	}
	return env, nil
}

// ExportJSON is Export followed by encoding.
func ExportJSON(ctx context.Context, store *storage.Store) ([]byte, error) {
	env, err := Export(ctx, store)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "  ")
}

// Decode parses and validates a payload without touching any store.
func Decode(payload []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if env.Version < 1 {
		return nil, fmt.Errorf("%w: missing or non-positive version %d", ErrInvalidPayload, env.Version)
	}
	if env.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d (newest supported is %d)", ErrUnsupportedVersion, env.Version, CurrentVersion)
	}
	return &env, nil
}

// entries encodes every present section under its store key.
func (e *Envelope) entries() (map[string][]byte, error) {
	sections := map[string]interface{}{}
	add := func(key string, present bool, v interface{}) {
		if present {
			sections[key] = v
		}
	}
	add(constants.KeyGoals, e.Goals != nil, e.Goals)
	add(constants.KeyNotes, e.Notes != nil, e.Notes)
	add(constants.KeyTasks, e.Tasks != nil, e.Tasks)
	add(constants.KeyEvents, e.Events != nil, e.Events)
	add(constants.KeyHabitEntries, e.HabitEntries != nil, e.HabitEntries)
	add(constants.KeySettings, e.Settings != nil, e.Settings)
	add(constants.KeyReminders, e.Reminders != nil, e.Reminders)
	add(constants.KeyHabits, e.Habits != nil, e.Habits)
	add(constants.KeyJournalEntries, e.JournalEntries != nil, e.JournalEntries)
	add(constants.KeyTransactions, e.Transactions != nil, e.Transactions)
	add(constants.KeyBudgets, e.Budgets != nil, e.Budgets)
	add(constants.KeyFinanceLogs, e.FinanceLogs != nil, e.FinanceLogs)
	add(constants.KeyUserProfile, e.UserProfile != nil, e.UserProfile)
	add(constants.KeyOnboardingComplete, e.OnboardingComplete != nil, e.OnboardingComplete)

	out := make(map[string][]byte, len(sections))
	for key, v := range sections {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		// a null array would otherwise read back as a corrupt payload
		if string(data) == "null" {
			data = []byte("[]")
		}
		out[key] = data
	}
	return out, nil
}

// ImportResult lists the store keys an import replaced.
type ImportResult struct {
	Version int
	Keys    []string
}

// Import replaces every collection present in payload. The payload is fully
// decoded and validated first and all sections are written in one batch, so a
// rejected payload leaves the store unmodified.
func Import(store *storage.Store, payload []byte) (ImportResult, error) {
	env, err := Decode(payload)
	if err != nil {
		return ImportResult{}, err
	}
	return ImportEnvelope(store, env)
}

// ImportEnvelope writes an already decoded envelope.
func ImportEnvelope(store *storage.Store, env *Envelope) (ImportResult, error) {
	entries, err := env.entries()
	if err != nil {
		return ImportResult{}, err
	}
	if err := store.WriteBatch(entries); err != nil {
		return ImportResult{}, fmt.Errorf("failed to import data: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	logger.Info("Imported backup", "version", env.Version, "sections", len(keys))
	return ImportResult{Version: env.Version, Keys: keys}, nil
}
