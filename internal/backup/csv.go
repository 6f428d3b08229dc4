package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

var transactionsCSVHeader = []string{"ID", "Date", "Amount", "Type", "Category", "Note", "Person", "IsSettled"}

// TransactionsCSV writes one row per transaction with dates in loc.
func TransactionsCSV(w io.Writer, transactions []models.Transaction, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionsCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range transactions {
		row := []string{
			t.ID,
			utils.FromMillis(t.Date, loc).Format(constants.DateTimeFormat),
			t.Amount.String(),
			string(t.Type),
			string(t.Category),
			t.Note,
			t.PersonName,
			strconv.FormatBool(t.IsSettled),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", t.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
