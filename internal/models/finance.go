package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome   TransactionType = "INCOME"   // money coming in
	TransactionExpense  TransactionType = "EXPENSE"  // money going out
	TransactionBorrowed TransactionType = "BORROWED" // money taken from someone
	TransactionLent     TransactionType = "LENT"     // money given to someone
)

// ParseTransactionType accepts a type name case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TransactionIncome, TransactionExpense, TransactionBorrowed, TransactionLent:
		return t, nil
	}
	return "", fmt.Errorf("invalid transaction type: %s", s)
}

// IsDebt reports whether the transaction can be settled.
func (t TransactionType) IsDebt() bool {
	return t == TransactionBorrowed || t == TransactionLent
}

type TransactionCategory string

const (
	CategoryFood          TransactionCategory = "FOOD"
	CategoryTransport     TransactionCategory = "TRANSPORT"
	CategoryShopping      TransactionCategory = "SHOPPING"
	CategoryEntertainment TransactionCategory = "ENTERTAINMENT"
	CategoryHealth        TransactionCategory = "HEALTH"
	CategoryEducation     TransactionCategory = "EDUCATION"
	CategorySalary        TransactionCategory = "SALARY"
	CategoryInvestment    TransactionCategory = "INVESTMENT"
	CategoryBill          TransactionCategory = "BILL"
	CategoryRent          TransactionCategory = "RENT"
	CategoryGift          TransactionCategory = "GIFT"
	CategoryOther         TransactionCategory = "OTHER"
	CategoryDebtRepayment TransactionCategory = "DEBT_REPAYMENT"
)

var transactionCategories = []TransactionCategory{
	CategoryFood, CategoryTransport, CategoryShopping, CategoryEntertainment,
	CategoryHealth, CategoryEducation, CategorySalary, CategoryInvestment,
	CategoryBill, CategoryRent, CategoryGift, CategoryOther, CategoryDebtRepayment,
}

// ParseTransactionCategory accepts a category name case-insensitively.
func ParseTransactionCategory(s string) (TransactionCategory, error) {
	c := TransactionCategory(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range transactionCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid transaction category: %s", s)
}

type BudgetPeriod string

const (
	BudgetDaily   BudgetPeriod = "DAILY"
	BudgetWeekly  BudgetPeriod = "WEEKLY"
	BudgetMonthly BudgetPeriod = "MONTHLY"
	BudgetYearly  BudgetPeriod = "YEARLY"
)

// ParseBudgetPeriod accepts a period name case-insensitively.
func ParseBudgetPeriod(s string) (BudgetPeriod, error) {
	p := BudgetPeriod(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case BudgetDaily, BudgetWeekly, BudgetMonthly, BudgetYearly:
		return p, nil
	}
	return "", fmt.Errorf("invalid budget period: %s", s)
}

type Transaction struct {
	ID          string              `json:"id"`
	Amount      decimal.Decimal     `json:"amount"`
	Type        TransactionType     `json:"type"`
	Category    TransactionCategory `json:"category"`
	Note        string              `json:"note"`
	PersonName  string              `json:"personName,omitempty"` // counterparty for debts
	Date        int64               `json:"date"`
	IsSettled   bool                `json:"isSettled"`
	IsRecurring bool                `json:"isRecurring"`
	CreatedAt   int64               `json:"createdAt"`
}

func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive")
	}
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if _, err := ParseTransactionCategory(string(t.Category)); err != nil {
		return err
	}
	return nil
}

type Budget struct {
	ID          string               `json:"id"`
	Category    *TransactionCategory `json:"category,omitempty"` // nil means overall budget
	LimitAmount decimal.Decimal      `json:"limitAmount"`
	Period      BudgetPeriod         `json:"period"`
	StartDate   int64                `json:"startDate"`
	EndDate     *int64               `json:"endDate,omitempty"`
}

func (b *Budget) Validate() error {
	if !b.LimitAmount.IsPositive() {
		return fmt.Errorf("budget limit must be positive")
	}
	if _, err := ParseBudgetPeriod(string(b.Period)); err != nil {
		return err
	}
	return nil
}

// Finance log actions
const (
	FinanceActionAdd     = "ADD"
	FinanceActionUpdate  = "UPDATE"
	FinanceActionRemove  = "REMOVE"
	FinanceActionSettled = "SETTLED"

	FinanceEntityTransaction = "TRANSACTION"
	FinanceEntityBudget      = "BUDGET"
)

// FinanceLog is an append-only audit line for finance mutations
type FinanceLog struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	EntityType  string `json:"entityType"`
	Timestamp   int64  `json:"timestamp"`
	Description string `json:"description"`
}
