package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-converter/internal/models"
)

// Verify sums the resolved transactions by sign class and compares each
// sum to the statement's self-reported totals with exact decimal
// equality. Statement totals are exact to the cent, so there is no
// epsilon: any difference is a mismatch. A mismatch is never fatal —
// the caller still emits the transactions, flagged unverified.
func Verify(txns []models.Transaction, totals models.SummaryTotals) models.ReconciliationReport {
	credits := decimal.Zero
	debits := decimal.Zero
	for _, t := range txns {
		if t.Amount.IsNegative() {
			debits = debits.Add(t.Amount.Abs())
		} else {
			credits = credits.Add(t.Amount)
		}
	}
	return models.ReconciliationReport{
		ExpectedCredits: totals.TotalCredits,
		ActualCredits:   credits,
		ExpectedDebits:  totals.TotalDebits,
		ActualDebits:    debits,
		CreditsMatch:    credits.Equal(totals.TotalCredits),
		DebitsMatch:     debits.Equal(totals.TotalDebits),
	}
}

// Merge concatenates per-document transaction lists and sorts them by
// date ascending. The sort is stable, so equal dates keep per-document
// relative order and then document arrival order: output is
// deterministic given deterministic input ordering. Inputs are never
// mutated; the result is a fresh slice.
func Merge(lists ...[]models.Transaction) []models.Transaction {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	merged := make([]models.Transaction, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}
