package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/models"
)

// Options configures a Store.
type Options struct {
	// SerializeWrites gives every key a single-writer mutex. Without it
	// concurrent read-modify-write cycles may lose updates.
	SerializeWrites bool
	// Location is the timezone used for day bucketing. Defaults to time.Local.
	Location *time.Location
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// Store is the typed view of the local KV: one collection per record kind,
// single documents for settings and the user profile, and a few flags.
type Store struct {
	kv    KV
	loc   *time.Location
	now   func() time.Time
	locks map[string]*sync.Mutex

	Goals          *Collection[models.Goal]
	Tasks          *Collection[models.Task]
	Notes          *Collection[models.Note]
	Events         *Collection[models.CalendarEvent]
	Reminders      *Collection[models.Reminder]
	Habits         *Collection[models.Habit]
	HabitEntries   *Collection[models.HabitEntry]
	JournalEntries *Collection[models.JournalEntry]
	Transactions   *Collection[models.Transaction]
	Budgets        *Collection[models.Budget]
	FinanceLogs    *Collection[models.FinanceLog]
}

// AllKeys lists every key the Store writes.
var AllKeys = []string{
	constants.KeyGoals,
	constants.KeyTasks,
	constants.KeyNotes,
	constants.KeyEvents,
	constants.KeyReminders,
	constants.KeyHabits,
	constants.KeyHabitEntries,
	constants.KeyJournalEntries,
	constants.KeyTransactions,
	constants.KeyBudgets,
	constants.KeyFinanceLogs,
	constants.KeyRecentSearches,
	constants.KeySettings,
	constants.KeyUserProfile,
	constants.KeyFirstLaunchDone,
	constants.KeyOnboardingComplete,
	constants.KeyLastSyncTime,
}

func New(kv KV, opts Options) *Store {
	s := &Store{
		kv:    kv,
		loc:   opts.Location,
		now:   opts.Now,
		locks: make(map[string]*sync.Mutex),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.SerializeWrites {
		for _, key := range AllKeys {
			s.locks[key] = &sync.Mutex{}
		}
	}

	s.Goals = newCollection[models.Goal](kv, constants.KeyGoals, s.locks[constants.KeyGoals])
	s.Tasks = newCollection[models.Task](kv, constants.KeyTasks, s.locks[constants.KeyTasks])
	s.Notes = newCollection[models.Note](kv, constants.KeyNotes, s.locks[constants.KeyNotes])
	s.Events = newCollection[models.CalendarEvent](kv, constants.KeyEvents, s.locks[constants.KeyEvents])
	s.Reminders = newCollection[models.Reminder](kv, constants.KeyReminders, s.locks[constants.KeyReminders])
	s.Habits = newCollection[models.Habit](kv, constants.KeyHabits, s.locks[constants.KeyHabits])
	s.HabitEntries = newCollection[models.HabitEntry](kv, constants.KeyHabitEntries, s.locks[constants.KeyHabitEntries])
	s.JournalEntries = newCollection[models.JournalEntry](kv, constants.KeyJournalEntries, s.locks[constants.KeyJournalEntries])
	s.Transactions = newCollection[models.Transaction](kv, constants.KeyTransactions, s.locks[constants.KeyTransactions])
	s.Budgets = newCollection[models.Budget](kv, constants.KeyBudgets, s.locks[constants.KeyBudgets])
	s.FinanceLogs = newCollection[models.FinanceLog](kv, constants.KeyFinanceLogs, s.locks[constants.KeyFinanceLogs])
	return s
}

// KV exposes the underlying backend.
func (s *Store) KV() KV {
	return s.kv
}

// Location is the timezone used for day bucketing.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Now returns the store clock's current time in the store location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

// lockKeys acquires the mutexes for keys in a fixed order and returns the
// release func. A no-op when writes are not serialized.
func (s *Store) lockKeys(keys ...string) func() {
	var held []*sync.Mutex
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	for _, key := range sorted {
		if mu, ok := s.locks[key]; ok {
			mu.Lock()
			held = append(held, mu)
		}
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// WriteBatch atomically replaces the given keys, holding every affected lock.
func (s *Store) WriteBatch(entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	unlock := s.lockKeys(keys...)
	defer unlock()
	return s.kv.PutBatch(entries)
}

// ReadRaw returns the stored bytes for key, or nil when the key is absent.
func (s *Store) ReadRaw(key string) ([]byte, error) {
	data, err := s.kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return data, err
}

func (s *Store) getDoc(key string, out interface{}) (bool, error) {
	data, err := s.kv.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("Discarding corrupt document", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (s *Store) putDoc(key string, value interface{}) error {
	unlock := s.lockKeys(key)
	defer unlock()
	return s.putDocLocked(key, value)
}

func (s *Store) putDocLocked(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Put(key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() models.AppSettings {
	return models.AppSettings{
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		DailyReminderTime:    constants.DefaultDailyReminderTime,
		WeeklyReviewDay:      constants.DefaultWeeklyReviewDay,
		Timezone:             constants.DefaultTimezone,
	}
}

// GetSettings returns stored settings, falling back to defaults.
func (s *Store) GetSettings() (models.AppSettings, error) {
	settings := DefaultSettings()
	if _, err := s.getDoc(constants.KeySettings, &settings); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.AppSettings) error {
	return s.putDoc(constants.KeySettings, settings)
}

// GetUserProfile returns nil when onboarding never captured a profile.
func (s *Store) GetUserProfile() (*models.UserProfile, error) {
	var profile models.UserProfile
	found, err := s.getDoc(constants.KeyUserProfile, &profile)
	if err != nil || !found {
		return nil, err
	}
	return &profile, nil
}

func (s *Store) SaveUserProfile(profile models.UserProfile) error {
	if profile.CreatedAt == 0 {
		profile.CreatedAt = s.nowMillis()
	}
	return s.putDoc(constants.KeyUserProfile, profile)
}

func (s *Store) flag(key string) (bool, error) {
	var v bool
	_, err := s.getDoc(key, &v)
	return v, err
}

// IsFirstLaunchDone reports whether first-run seeding already happened.
func (s *Store) IsFirstLaunchDone() (bool, error) {
	return s.flag(constants.KeyFirstLaunchDone)
}

func (s *Store) SetFirstLaunchDone() error {
	return s.putDoc(constants.KeyFirstLaunchDone, true)
}

func (s *Store) IsOnboardingComplete() (bool, error) {
	return s.flag(constants.KeyOnboardingComplete)
}

func (s *Store) SetOnboardingComplete(complete bool) error {
	return s.putDoc(constants.KeyOnboardingComplete, complete)
}

// LastSyncTime returns the epoch-ms of the last successful sync, 0 if never.
func (s *Store) LastSyncTime() (int64, error) {
	var ms int64
	_, err := s.getDoc(constants.KeyLastSyncTime, &ms)
	return ms, err
}

func (s *Store) SetLastSyncTime(ms int64) error {
	return s.putDoc(constants.KeyLastSyncTime, ms)
}

// RecentSearches returns queries most recent first.
func (s *Store) RecentSearches() ([]string, error) {
	searches := []string{}
	_, err := s.getDoc(constants.KeyRecentSearches, &searches)
	return searches, err
}

// AddRecentSearch moves query to the front, dropping duplicates and
// keeping at most MaxRecentSearches entries. Blank queries are ignored.
func (s *Store) AddRecentSearch(query string) error {
	if query == "" {
		return nil
	}
	unlock := s.lockKeys(constants.KeyRecentSearches)
	defer unlock()

	existing, err := s.RecentSearches()
	if err != nil {
		return err
	}
	next := []string{query}
	for _, q := range existing {
		if q != query {
			next = append(next, q)
		}
	}
	if len(next) > constants.MaxRecentSearches {
		next = next[:constants.MaxRecentSearches]
	}
	return s.putDocLocked(constants.KeyRecentSearches, next)
}

func (s *Store) ClearRecentSearches() error {
	return s.putDoc(constants.KeyRecentSearches, []string{})
}

// ClearAll deletes every key the Store owns.
func (s *Store) ClearAll() error {
	unlock := s.lockKeys(AllKeys...)
	defer unlock()
	for _, key := range AllKeys {
		if err := s.kv.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}
