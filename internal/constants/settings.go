package constants

// Collection keys under which each record list is persisted
const (
	KeyGoals          = "goals"
	KeyTasks          = "tasks"
	KeyNotes          = "notes"
	KeyEvents         = "events"
	KeyReminders      = "reminders"
	KeyHabits         = "habits"
	KeyHabitEntries   = "habit_entries"
	KeyJournalEntries = "journal_entries"
	KeyTransactions   = "transactions"
	KeyBudgets        = "budgets"
	KeyFinanceLogs    = "finance_logs"
	KeyRecentSearches = "recent_searches"
	KeySettings       = "settings"
	KeyUserProfile    = "user_profile"

	// Flags
	KeyFirstLaunchDone    = "first_launch_done"
	KeyOnboardingComplete = "onboarding_complete"
	KeyLastSyncTime       = "last_sync_time"
)

const (
	// Default Settings Values
	DefaultNotificationsEnabled = true
	DefaultDailyReminderTime    = "08:00"
	DefaultWeeklyReviewDay      = 0 // Sunday
	DefaultTimezone             = "Local" // Use system local timezone by default
)
