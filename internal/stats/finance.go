package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// FinanceStats aggregates transactions and evaluates every budget against the
// period containing now. Borrowed and lent totals only include unsettled debts.
func FinanceStats(transactions []models.Transaction, budgets []models.Budget, now time.Time) models.FinanceStats {
	loc := now.Location()
	today := utils.StartOfDay(now.UnixMilli(), loc)
	windowStart := utils.AddDays(today, -constants.FinanceTrailingDays, loc)

	stats := models.FinanceStats{
		TotalIncome:           decimal.Zero,
		TotalExpense:          decimal.Zero,
		TotalBorrowed:         decimal.Zero,
		TotalLent:             decimal.Zero,
		ExpenseByCategory:     make(map[models.TransactionCategory]decimal.Decimal),
		DailyExpenses:         make(map[int64]decimal.Decimal),
		IncomeVsExpense:       make(map[int64]models.IncomeExpense),
		RecurringTransactions: []models.Transaction{},
	}

	for _, t := range transactions {
		switch t.Type {
		case models.TransactionIncome:
			stats.TotalIncome = stats.TotalIncome.Add(t.Amount)
		case models.TransactionExpense:
			stats.TotalExpense = stats.TotalExpense.Add(t.Amount)
			stats.ExpenseByCategory[t.Category] = stats.ExpenseByCategory[t.Category].Add(t.Amount)
		case models.TransactionBorrowed:
			if !t.IsSettled {
				stats.TotalBorrowed = stats.TotalBorrowed.Add(t.Amount)
			}
		case models.TransactionLent:
			if !t.IsSettled {
				stats.TotalLent = stats.TotalLent.Add(t.Amount)
			}
		}

		if t.IsRecurring {
			stats.RecurringTransactions = append(stats.RecurringTransactions, t)
		}

		if t.Date < windowStart {
			continue
		}
		day := utils.StartOfDay(t.Date, loc)
		bucket := stats.IncomeVsExpense[day]
		switch t.Type {
		case models.TransactionIncome:
			bucket.Income = bucket.Income.Add(t.Amount)
		case models.TransactionExpense:
			bucket.Expense = bucket.Expense.Add(t.Amount)
			stats.DailyExpenses[day] = stats.DailyExpenses[day].Add(t.Amount)
		}
		stats.IncomeVsExpense[day] = bucket
	}

	stats.Balance = stats.TotalIncome.
		Sub(stats.TotalExpense).
		Add(stats.TotalBorrowed).
		Sub(stats.TotalLent)

	stats.RecentTransactions = RecentTransactions(transactions, constants.RecentTransactions)

	stats.Budgets = make([]models.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		stats.Budgets = append(stats.Budgets, EvaluateBudget(b, transactions, now))
	}
	return stats
}

// RecentTransactions returns up to n transactions, newest date first.
func RecentTransactions(transactions []models.Transaction, n int) []models.Transaction {
	recent := make([]models.Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date > recent[j].Date })
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}

// BudgetWindow returns the inclusive range of the budget period containing now,
// clipped to the budget's own start and end dates. Weeks start on Monday.
// ok is false when the clipped window is empty.
func BudgetWindow(b models.Budget, now time.Time) (start, end int64, ok bool) {
	loc := now.Location()
	nowMs := now.UnixMilli()
	today := utils.StartOfDay(nowMs, loc)

	switch b.Period {
	case models.BudgetDaily:
		start, end = utils.DayBounds(nowMs, loc)
	case models.BudgetWeekly:
		offset := (int(now.Weekday()) + 6) % 7
		start = utils.AddDays(today, -offset, loc)
		end = utils.AddDays(start, 7, loc) - 1
	case models.BudgetYearly:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc).UnixMilli()
		end = time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, loc).UnixMilli() - 1
	default:
		start, end = utils.MonthBounds(now.Year(), now.Month(), loc)
	}

	if b.StartDate > start {
		start = b.StartDate
	}
	if b.EndDate != nil && *b.EndDate < end {
		end = *b.EndDate
	}
	return start, end, start <= end
}

// EvaluateBudget sums the expenses that count against b in its current window.
// A budget without a category covers every expense.
func EvaluateBudget(b models.Budget, transactions []models.Transaction, now time.Time) models.BudgetStatus {
	spent := decimal.Zero
	if start, end, ok := BudgetWindow(b, now); ok {
		for _, t := range transactions {
			if t.Type != models.TransactionExpense || !utils.InRange(t.Date, start, end) {
				continue
			}
			if b.Category != nil && t.Category != *b.Category {
				continue
			}
			spent = spent.Add(t.Amount)
		}
	}
	return models.BudgetStatus{
		Budget:    b,
		Spent:     spent,
		Remaining: b.LimitAmount.Sub(spent),
		Exceeded:  spent.GreaterThan(b.LimitAmount),
	}
}
