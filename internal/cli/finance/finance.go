package finance

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/julianstephens/planner/internal/backup"
	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/stats"
)

type FinanceStatsCmd struct{}

func (c *FinanceStatsCmd) Run(ctx *cli.Context) error {
	txs, err := ctx.Store.Transactions.GetAll()
	if err != nil {
		return err
	}
	budgets, err := ctx.Store.Budgets.GetAll()
	if err != nil {
		return err
	}

	s := stats.FinanceStats(txs, budgets, ctx.Store.Now())
	fmt.Println(cli.TitleStyle.Render("Finance"))
	fmt.Printf("  Income:    %12s\n", s.TotalIncome.StringFixed(2))
	fmt.Printf("  Expenses:  %12s\n", s.TotalExpense.StringFixed(2))
	fmt.Printf("  Borrowed:  %12s\n", s.TotalBorrowed.StringFixed(2))
	fmt.Printf("  Lent:      %12s\n", s.TotalLent.StringFixed(2))
	balance := s.Balance.StringFixed(2)
	if s.Balance.IsNegative() {
		balance = cli.ErrorStyle.Render(balance)
	} else {
		balance = cli.SuccessStyle.Render(balance)
	}
	fmt.Printf("  Balance:   %12s\n", balance)

	if len(s.ExpenseByCategory) > 0 {
		categories := make([]models.TransactionCategory, 0, len(s.ExpenseByCategory))
		for cat := range s.ExpenseByCategory {
			categories = append(categories, cat)
		}
		sort.Slice(categories, func(i, j int) bool {
			a, b := s.ExpenseByCategory[categories[i]], s.ExpenseByCategory[categories[j]]
			if !a.Equal(b) {
				return a.GreaterThan(b)
			}
			return categories[i] < categories[j]
		})

		fmt.Println()
		fmt.Println(cli.HeaderStyle.Render("Spending by category"))
		for _, cat := range categories {
			fmt.Printf("  %-14s %12s\n", strings.ToLower(string(cat)), s.ExpenseByCategory[cat].StringFixed(2))
		}
	}

	if len(s.Budgets) > 0 {
		fmt.Println()
		fmt.Println(cli.HeaderStyle.Render("Budgets"))
		for _, b := range s.Budgets {
			printBudgetStatus(b)
		}
	}

	if len(s.RecentTransactions) > 0 {
		fmt.Println()
		fmt.Println(cli.HeaderStyle.Render("Recent"))
		loc := ctx.Store.Location()
		for _, tx := range s.RecentTransactions {
			fmt.Printf("  %s %-9s %10s %s\n", cli.FormatDateTime(tx.Date, loc), strings.ToLower(string(tx.Type)), tx.Amount.StringFixed(2), tx.Note)
		}
	}
	return nil
}

type CSVCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout."`
}

func (c *CSVCmd) Run(ctx *cli.Context) error {
	txs, err := ctx.Store.Transactions.GetAll()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	if err := backup.TransactionsCSV(w, txs, ctx.Store.Location()); err != nil {
		return err
	}
	if c.Output != "" {
		fmt.Printf("Exported %d transactions to %s\n", len(txs), c.Output)
	}
	return nil
}

type LogsCmd struct {
	Limit int `short:"n" help:"Number of entries to show." default:"20"`
}

func (c *LogsCmd) Run(ctx *cli.Context) error {
	logs, err := ctx.Store.FinanceLogs.GetAll()
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		fmt.Println("No finance activity yet.")
		return nil
	}

	if c.Limit > 0 && len(logs) > c.Limit {
		logs = logs[:c.Limit]
	}
	loc := ctx.Store.Location()
	for _, l := range logs {
		fmt.Printf("%s  %-8s %s\n", cli.FormatDateTime(l.Timestamp, loc), l.Action, l.Description)
	}
	return nil
}
