package finance

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/stats"
	"github.com/julianstephens/planner/internal/utils"
)

type BudgetCmd struct {
	Add    BudgetAddCmd    `cmd:"" help:"Add a budget."`
	List   BudgetListCmd   `cmd:"" help:"List budgets with current spending."`
	Delete BudgetDeleteCmd `cmd:"" help:"Delete a budget."`
}

type BudgetAddCmd struct {
	Limit    string `arg:"" help:"Spending limit per period."`
	Period   string `short:"p" help:"Period (daily|weekly|monthly|yearly)." default:"monthly"`
	Category string `short:"c" help:"Only count this expense category. Omit for an overall budget."`
	Start    string `help:"First day the budget applies (YYYY-MM-DD). Defaults to today."`
	End      string `help:"Last day the budget applies (YYYY-MM-DD)."`
}

func (c *BudgetAddCmd) Run(ctx *cli.Context) error {
	limit, err := decimal.NewFromString(strings.TrimSpace(c.Limit))
	if err != nil {
		return fmt.Errorf("invalid limit %q", c.Limit)
	}
	period, err := models.ParseBudgetPeriod(c.Period)
	if err != nil {
		return err
	}

	now := ctx.Store.Now()
	loc := ctx.Store.Location()
	start, err := cli.ParseDate(c.Start, now)
	if err != nil {
		return err
	}

	budget := models.Budget{
		ID:          uuid.New().String(),
		LimitAmount: limit,
		Period:      period,
		StartDate:   utils.StartOfDay(start, loc),
	}
	if c.Category != "" {
		category, err := models.ParseTransactionCategory(c.Category)
		if err != nil {
			return err
		}
		budget.Category = &category
	}
	if c.End != "" {
		end, err := cli.ParseDate(c.End, now)
		if err != nil {
			return err
		}
		endOfDay := utils.AddDays(utils.StartOfDay(end, loc), 1, loc) - 1
		if endOfDay < budget.StartDate {
			return fmt.Errorf("budget end must not precede its start")
		}
		budget.EndDate = &endOfDay
	}

	if err := ctx.Store.AddBudget(budget); err != nil {
		return fmt.Errorf("failed to add budget: %w", err)
	}
	fmt.Printf("Added %s budget of %s for %s (ID: %s)\n", strings.ToLower(string(period)), limit.StringFixed(2), budgetScope(budget), cli.ShortID(budget.ID))
	return nil
}

func budgetScope(b models.Budget) string {
	if b.Category == nil {
		return "all expenses"
	}
	return strings.ToLower(string(*b.Category))
}

type BudgetListCmd struct{}

func (c *BudgetListCmd) Run(ctx *cli.Context) error {
	budgets, err := ctx.Store.Budgets.GetAll()
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		fmt.Println("No budgets configured.")
		return nil
	}

	txs, err := ctx.Store.Transactions.GetAll()
	if err != nil {
		return err
	}
	now := ctx.Store.Now()
	for _, b := range budgets {
		printBudgetStatus(stats.EvaluateBudget(b, txs, now))
	}
	return nil
}

func printBudgetStatus(s models.BudgetStatus) {
	fraction := 0.0
	if s.Budget.LimitAmount.IsPositive() {
		fraction, _ = s.Spent.Div(s.Budget.LimitAmount).Float64()
	}
	line := fmt.Sprintf("%s  %-8s %-14s %s  %s / %s",
		cli.MutedStyle.Render(cli.ShortID(s.Budget.ID)),
		strings.ToLower(string(s.Budget.Period)),
		budgetScope(s.Budget),
		cli.ProgressBar(fraction, 20),
		s.Spent.StringFixed(2),
		s.Budget.LimitAmount.StringFixed(2))
	if s.Exceeded {
		line += " " + cli.ErrorStyle.Render("exceeded")
	}
	fmt.Println(line)
}

type BudgetDeleteCmd struct {
	ID string `arg:"" help:"Budget ID or prefix."`
}

func (c *BudgetDeleteCmd) Run(ctx *cli.Context) error {
	budget, err := cli.Resolve(ctx.Store.Budgets, c.ID)
	if err != nil {
		return err
	}
	if _, err := ctx.Store.DeleteBudget(budget.ID); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	fmt.Printf("Deleted budget %s\n", cli.ShortID(budget.ID))
	return nil
}
