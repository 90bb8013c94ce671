package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/card-statement-converter/internal/models"
)

// CSVWriter writes resolved transactions as delimited rows.
type CSVWriter struct{}

// WriteToFile writes the transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, txns)
}

// Write emits a header row and one row per transaction. Dates are
// MM/DD/YYYY; amounts are signed with two decimal places, positive for
// credits and negative for debits.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if err := cw.Write([]string{"Date", "Reference", "Description", "Amount", "Source"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range txns {
		row := []string{
			txn.Date.Format("01/02/2006"),
			txn.Reference,
			txn.Description,
			txn.Amount.StringFixed(2),
			txn.Source,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return cw.Error()
}
