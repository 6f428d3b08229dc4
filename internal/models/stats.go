package models

import "github.com/shopspring/decimal"

type DashboardStats struct {
	TotalGoals          int     `json:"totalGoals"`
	CompletedMilestones int     `json:"completedMilestones"`
	TotalMilestones     int     `json:"totalMilestones"`
	TasksCompletedToday int     `json:"tasksCompletedToday"`
	TotalTasksToday     int     `json:"totalTasksToday"`
	CurrentStreak       int     `json:"currentStreak"`
	LongestStreak       int     `json:"longestStreak"`
	OverallProgress     float32 `json:"overallProgress"`
}

type HabitStats struct {
	HabitID           string  `json:"habitId"`
	CurrentStreak     int     `json:"currentStreak"`
	LongestStreak     int     `json:"longestStreak"`
	CompletionRate    float64 `json:"completionRate"`
	TotalCompletions  int     `json:"totalCompletions"`
	TotalDays         int     `json:"totalDays"`
	LastCompletedDate *int64  `json:"lastCompletedDate,omitempty"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type JournalStats struct {
	TotalEntries     int        `json:"totalEntries"`
	EntriesThisMonth int        `json:"entriesThisMonth"`
	AverageMood      float64    `json:"averageMood"`
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	TopTags          []TagCount `json:"topTags"`
}

type BudgetStatus struct {
	Budget    Budget          `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Exceeded  bool            `json:"exceeded"`
}

// IncomeExpense is one day bucket of the income-vs-expense trend.
type IncomeExpense struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type FinanceStats struct {
	TotalIncome           decimal.Decimal                         `json:"totalIncome"`
	TotalExpense          decimal.Decimal                         `json:"totalExpense"`
	TotalBorrowed         decimal.Decimal                         `json:"totalBorrowed"`
	TotalLent             decimal.Decimal                         `json:"totalLent"`
	Balance               decimal.Decimal                         `json:"balance"`
	ExpenseByCategory     map[TransactionCategory]decimal.Decimal `json:"expenseByCategory"`
	DailyExpenses         map[int64]decimal.Decimal               `json:"dailyExpenses"`
	IncomeVsExpense       map[int64]IncomeExpense                 `json:"incomeVsExpense"`
	RecentTransactions    []Transaction                           `json:"recentTransactions"`
	RecurringTransactions []Transaction                           `json:"recurringTransactions"`
	Budgets               []BudgetStatus                          `json:"budgets"`
}

// DayValue is a (day start, value) point for analytics series.
type DayValue struct {
	Day   int64   `json:"day"`
	Value float64 `json:"value"`
}

type AnalyticsData struct {
	Start               int64      `json:"start"`
	End                 int64      `json:"end"`
	TaskCompletions     []DayValue `json:"taskCompletions"`
	HabitCompletionRate float64    `json:"habitCompletionRate"`
	MoodTrend           []DayValue `json:"moodTrend"`
	Spending            []DayValue `json:"spending"`
}
