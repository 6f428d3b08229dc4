package stats

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(id string, typ models.TransactionType, cat models.TransactionCategory, amount string, date int64) models.Transaction {
	return models.Transaction{ID: id, Type: typ, Category: cat, Amount: dec(amount), Date: date}
}

func TestFinanceStatsTotals(t *testing.T) {
	transactions := []models.Transaction{
		tx("1", models.TransactionIncome, models.CategorySalary, "1000", daysAgo(0)),
		tx("2", models.TransactionExpense, models.CategoryFood, "40.50", daysAgo(0)),
		tx("3", models.TransactionExpense, models.CategoryFood, "9.50", daysAgo(2)),
		tx("4", models.TransactionExpense, models.CategoryRent, "500", daysAgo(45)),
		tx("5", models.TransactionBorrowed, models.CategoryOther, "100", daysAgo(3)),
		tx("6", models.TransactionLent, models.CategoryOther, "30", daysAgo(3)),
		tx("7", models.TransactionLent, models.CategoryOther, "70", daysAgo(4)),
	}
	transactions[6].IsSettled = true
	transactions[3].IsRecurring = true

	got := FinanceStats(transactions, nil, refNow)

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"TotalIncome", got.TotalIncome, "1000"},
		{"TotalExpense", got.TotalExpense, "550"},
		{"TotalBorrowed", got.TotalBorrowed, "100"},
		{"TotalLent", got.TotalLent, "30"},
		{"Balance", got.Balance, "520"},
		{"ExpenseByCategory[FOOD]", got.ExpenseByCategory[models.CategoryFood], "50"},
		{"ExpenseByCategory[RENT]", got.ExpenseByCategory[models.CategoryRent], "500"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("FinanceStats() %s = %s, want %s", c.name, c.got, c.want)
		}
	}

	if _, ok := got.ExpenseByCategory[models.CategoryHealth]; ok {
		t.Error("FinanceStats() zero-filled an unused category")
	}
	if len(got.ExpenseByCategory) != 2 {
		t.Errorf("FinanceStats() ExpenseByCategory has %d keys, want 2", len(got.ExpenseByCategory))
	}

	today := utils.StartOfDay(refNow.UnixMilli(), time.UTC)
	if len(got.DailyExpenses) != 2 {
		t.Errorf("FinanceStats() DailyExpenses has %d buckets, want 2 (rent is outside the window)", len(got.DailyExpenses))
	}
	if !got.DailyExpenses[today].Equal(dec("40.50")) {
		t.Errorf("FinanceStats() DailyExpenses[today] = %s, want 40.50", got.DailyExpenses[today])
	}
	if bucket := got.IncomeVsExpense[today]; !bucket.Income.Equal(dec("1000")) || !bucket.Expense.Equal(dec("40.50")) {
		t.Errorf("FinanceStats() IncomeVsExpense[today] = %+v", bucket)
	}

	if len(got.RecurringTransactions) != 1 || got.RecurringTransactions[0].ID != "4" {
		t.Errorf("FinanceStats() RecurringTransactions = %v, want [4]", got.RecurringTransactions)
	}
	if len(got.RecentTransactions) != len(transactions) {
		t.Errorf("FinanceStats() RecentTransactions has %d, want %d", len(got.RecentTransactions), len(transactions))
	}
	if got.RecentTransactions[len(got.RecentTransactions)-1].ID != "4" {
		t.Errorf("FinanceStats() oldest recent = %s, want 4", got.RecentTransactions[len(got.RecentTransactions)-1].ID)
	}
}

func TestFinanceStatsEmpty(t *testing.T) {
	got := FinanceStats(nil, nil, refNow)
	if !got.Balance.IsZero() {
		t.Errorf("FinanceStats() Balance = %s, want 0", got.Balance)
	}
	if got.ExpenseByCategory == nil || got.RecurringTransactions == nil || got.Budgets == nil {
		t.Error("FinanceStats() returned nil collections for empty input")
	}
}

func TestRecentTransactionsCap(t *testing.T) {
	var transactions []models.Transaction
	for i := 0; i < 15; i++ {
		transactions = append(transactions, tx("t", models.TransactionExpense, models.CategoryFood, "1", daysAgo(i)))
	}
	got := RecentTransactions(transactions, 10)
	if len(got) != 10 {
		t.Fatalf("RecentTransactions() len = %d, want 10", len(got))
	}
	if got[0].Date != daysAgo(0) {
		t.Errorf("RecentTransactions()[0] = %d, want newest", got[0].Date)
	}
}

func TestBudgetWindow(t *testing.T) {
	// refNow is Saturday 2026-10-17
	tests := []struct {
		name      string
		budget    models.Budget
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{
			name:      "daily",
			budget:    models.Budget{Period: models.BudgetDaily},
			wantStart: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "weekly starts monday",
			budget:    models.Budget{Period: models.BudgetWeekly},
			wantStart: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "monthly",
			budget:    models.Budget{Period: models.BudgetMonthly},
			wantStart: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "yearly",
			budget:    models.Budget{Period: models.BudgetYearly},
			wantStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "clipped by start date",
			budget:    models.Budget{Period: models.BudgetMonthly, StartDate: time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC).UnixMilli()},
			wantStart: time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := BudgetWindow(tt.budget, refNow)
			if ok != tt.wantOK {
				t.Fatalf("BudgetWindow() ok = %v, want %v", ok, tt.wantOK)
			}
			if start != tt.wantStart.UnixMilli() {
				t.Errorf("BudgetWindow() start = %v, want %v", utils.FromMillis(start, time.UTC), tt.wantStart)
			}
			if end != tt.wantEnd.UnixMilli()-1 {
				t.Errorf("BudgetWindow() end = %v, want just before %v", utils.FromMillis(end, time.UTC), tt.wantEnd)
			}
		})
	}

	ended := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if _, _, ok := BudgetWindow(models.Budget{Period: models.BudgetMonthly, EndDate: &ended}, refNow); ok {
		t.Error("BudgetWindow() ok = true for a budget that ended last month")
	}
}

func TestEvaluateBudget(t *testing.T) {
	food := models.CategoryFood
	transactions := []models.Transaction{
		tx("1", models.TransactionExpense, models.CategoryFood, "60", daysAgo(1)),
		tx("2", models.TransactionExpense, models.CategoryFood, "50", daysAgo(2)),
		tx("3", models.TransactionExpense, models.CategoryRent, "500", daysAgo(3)),
		tx("4", models.TransactionIncome, models.CategoryFood, "999", daysAgo(1)),
		tx("5", models.TransactionExpense, models.CategoryFood, "70", daysAgo(30)),
	}

	tests := []struct {
		name         string
		budget       models.Budget
		wantSpent    string
		wantExceeded bool
	}{
		{
			name:         "category budget exceeded",
			budget:       models.Budget{ID: "b1", Category: &food, LimitAmount: dec("100"), Period: models.BudgetMonthly},
			wantSpent:    "110",
			wantExceeded: true,
		},
		{
			name:         "overall budget",
			budget:       models.Budget{ID: "b2", LimitAmount: dec("1000"), Period: models.BudgetMonthly},
			wantSpent:    "610",
			wantExceeded: false,
		},
		{
			name:         "daily budget sees nothing today",
			budget:       models.Budget{ID: "b3", LimitAmount: dec("10"), Period: models.BudgetDaily},
			wantSpent:    "0",
			wantExceeded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateBudget(tt.budget, transactions, refNow)
			if !got.Spent.Equal(dec(tt.wantSpent)) {
				t.Errorf("EvaluateBudget() Spent = %s, want %s", got.Spent, tt.wantSpent)
			}
			if got.Exceeded != tt.wantExceeded {
				t.Errorf("EvaluateBudget() Exceeded = %v, want %v", got.Exceeded, tt.wantExceeded)
			}
			if !got.Remaining.Equal(tt.budget.LimitAmount.Sub(got.Spent)) {
				t.Errorf("EvaluateBudget() Remaining = %s, want limit - spent", got.Remaining)
			}
		})
	}
}
