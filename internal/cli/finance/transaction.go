package finance

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

type FinanceCmd struct {
	Tx     TxCmd           `cmd:"" help:"Manage transactions."`
	Budget BudgetCmd       `cmd:"" help:"Manage budgets."`
	Stats  FinanceStatsCmd `cmd:"" help:"Show totals, spending breakdown and budget status."`
	CSV    CSVCmd          `cmd:"" name:"csv" help:"Export transactions as CSV."`
	Logs   LogsCmd         `cmd:"" help:"Show the finance audit log."`
}

type TxCmd struct {
	Add    TxAddCmd    `cmd:"" help:"Record a transaction."`
	List   TxListCmd   `cmd:"" help:"List transactions."`
	Edit   TxEditCmd   `cmd:"" help:"Edit a transaction."`
	Settle TxSettleCmd `cmd:"" help:"Mark a borrowed or lent transaction settled."`
	Delete TxDeleteCmd `cmd:"" help:"Delete a transaction."`
}

type TxAddCmd struct {
	Amount    string `arg:"" help:"Amount, e.g. 12.50."`
	Type      string `arg:"" help:"Type (income|expense|borrowed|lent)."`
	Category  string `short:"c" help:"Category (food|transport|shopping|...)." default:"other"`
	Note      string `short:"n" help:"Note."`
	Person    string `short:"p" help:"Counterparty for borrowed or lent money."`
	Date      string `help:"Date (YYYY-MM-DD, \"YYYY-MM-DD HH:MM\", today)."`
	Recurring bool   `help:"Mark as recurring."`
}

func (c *TxAddCmd) Validate() error {
	t, err := models.ParseTransactionType(c.Type)
	if err != nil {
		return err
	}
	if c.Person != "" && !t.IsDebt() {
		return fmt.Errorf("--person only applies to borrowed or lent transactions")
	}
	if _, err := models.ParseTransactionCategory(c.Category); err != nil {
		return err
	}
	return nil
}

func (c *TxAddCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(c.Amount))
	if err != nil {
		return fmt.Errorf("invalid amount %q", c.Amount)
	}
	txType, _ := models.ParseTransactionType(c.Type)
	category, _ := models.ParseTransactionCategory(c.Category)

	now := ctx.Store.Now()
	date := now.UnixMilli()
	if c.Date != "" {
		if date, err = cli.ParseDate(c.Date, now); err != nil {
			return err
		}
	}

	tx := models.Transaction{
		ID:          uuid.New().String(),
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Note:        c.Note,
		PersonName:  strings.TrimSpace(c.Person),
		Date:        date,
		IsRecurring: c.Recurring,
		CreatedAt:   now.UnixMilli(),
	}
	if err := ctx.Store.AddTransaction(tx); err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}

	fmt.Printf("Recorded %s %s (%s) (ID: %s)\n", strings.ToLower(string(tx.Type)), tx.Amount.StringFixed(2), strings.ToLower(string(tx.Category)), cli.ShortID(tx.ID))
	return nil
}

type TxListCmd struct {
	From      string `help:"First day (YYYY-MM-DD). Defaults to 30 days ago."`
	To        string `help:"Last day (YYYY-MM-DD). Defaults to today."`
	Type      string `help:"Only this type."`
	Unsettled bool   `help:"Only unsettled debts."`
}

func (c *TxListCmd) Run(ctx *cli.Context) error {
	now := ctx.Store.Now()
	loc := ctx.Store.Location()
	today := utils.StartOfDay(now.UnixMilli(), loc)

	start := utils.AddDays(today, -30, loc)
	if c.From != "" {
		from, err := cli.ParseDate(c.From, now)
		if err != nil {
			return err
		}
		start = utils.StartOfDay(from, loc)
	}
	end := utils.AddDays(today, 1, loc) - 1
	if c.To != "" {
		to, err := cli.ParseDate(c.To, now)
		if err != nil {
			return err
		}
		end = utils.AddDays(utils.StartOfDay(to, loc), 1, loc) - 1
	}

	var want models.TransactionType
	if c.Type != "" {
		t, err := models.ParseTransactionType(c.Type)
		if err != nil {
			return err
		}
		want = t
	}

	txs, err := ctx.Store.TransactionsForRange(start, end)
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}

	shown := 0
	for _, tx := range txs {
		if want != "" && tx.Type != want {
			continue
		}
		if c.Unsettled && (!tx.Type.IsDebt() || tx.IsSettled) {
			continue
		}
		if shown == 0 {
			fmt.Printf("%-8s %-16s %10s %-9s %-14s %s\n", "ID", "Date", "Amount", "Type", "Category", "Note")
			fmt.Println(strings.Repeat("-", 80))
		}
		shown++
		note := tx.Note
		if tx.PersonName != "" {
			note = strings.TrimSpace(note + " (" + tx.PersonName + ")")
		}
		if tx.Type.IsDebt() && tx.IsSettled {
			note += " ✓"
		}
		fmt.Printf("%-8s %-16s %10s %-9s %-14s %s\n",
			cli.ShortID(tx.ID), cli.FormatDateTime(tx.Date, loc), tx.Amount.StringFixed(2),
			strings.ToLower(string(tx.Type)), strings.ToLower(string(tx.Category)), note)
	}

	if shown == 0 {
		fmt.Println("No transactions found.")
	}
	return nil
}

type TxEditCmd struct {
	ID       string  `arg:"" help:"Transaction ID or prefix."`
	Amount   *string `help:"New amount."`
	Category *string `short:"c" help:"New category."`
	Note     *string `short:"n" help:"New note."`
	Date     *string `help:"New date."`
}

func (c *TxEditCmd) Run(ctx *cli.Context) error {
	tx, err := cli.Resolve(ctx.Store.Transactions, c.ID)
	if err != nil {
		return err
	}

	if c.Amount != nil {
		amount, err := decimal.NewFromString(strings.TrimSpace(*c.Amount))
		if err != nil {
			return fmt.Errorf("invalid amount %q", *c.Amount)
		}
		tx.Amount = amount
	}
	if c.Category != nil {
		category, err := models.ParseTransactionCategory(*c.Category)
		if err != nil {
			return err
		}
		tx.Category = category
	}
	if c.Note != nil {
		tx.Note = *c.Note
	}
	if c.Date != nil {
		date, err := cli.ParseDate(*c.Date, ctx.Store.Now())
		if err != nil {
			return err
		}
		tx.Date = date
	}

	if _, err := ctx.Store.UpdateTransaction(tx); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	fmt.Printf("Updated transaction %s\n", cli.ShortID(tx.ID))
	return nil
}

type TxSettleCmd struct {
	ID string `arg:"" help:"Transaction ID or prefix."`
}

func (c *TxSettleCmd) Run(ctx *cli.Context) error {
	tx, err := cli.Resolve(ctx.Store.Transactions, c.ID)
	if err != nil {
		return err
	}
	changed, err := ctx.Store.SettleDebt(tx.ID)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Printf("Transaction %s is already settled.\n", cli.ShortID(tx.ID))
		return nil
	}
	fmt.Printf("Settled %s of %s\n", strings.ToLower(string(tx.Type)), tx.Amount.StringFixed(2))
	return nil
}

type TxDeleteCmd struct {
	ID  string `arg:"" help:"Transaction ID or prefix."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *TxDeleteCmd) Run(ctx *cli.Context) error {
	tx, err := cli.Resolve(ctx.Store.Transactions, c.ID)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete %s of %s?", strings.ToLower(string(tx.Type)), tx.Amount.StringFixed(2)), "This cannot be undone.", c.Yes)
	if err != nil || !ok {
		return err
	}
	if _, err := ctx.Store.DeleteTransaction(tx.ID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	fmt.Printf("Deleted transaction %s\n", cli.ShortID(tx.ID))
	return nil
}
