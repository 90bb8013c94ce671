package models

import (
	"errors"
	"fmt"
)

// Failure kinds for a single document pass. Any of the first five aborts
// the document that raised it; other documents in the run are unaffected.
// Call sites wrap these with fmt.Errorf and %w, adding the document
// identifier, so callers can dispatch with errors.Is.
var (
	ErrEmptyDocument        = errors.New("empty document")
	ErrCycleNotFound        = errors.New("billing cycle not found")
	ErrSummaryNotFound      = errors.New("summary totals not found")
	ErrNoTransactionSection = errors.New("transaction section not found")
	ErrAmbiguousDate        = errors.New("ambiguous transaction date")

	// ErrReconciliationMismatch is warning-level: extraction still
	// succeeds and the transactions are emitted unverified.
	ErrReconciliationMismatch = errors.New("reconciliation mismatch")
)

// Err returns a wrapped ErrReconciliationMismatch describing the signed
// differences, or nil when both totals match.
func (r ReconciliationReport) Err() error {
	if r.Matched() {
		return nil
	}
	return fmt.Errorf("%w: credits off by %s, debits off by %s",
		ErrReconciliationMismatch,
		r.CreditsDiff().StringFixed(2),
		r.DebitsDiff().StringFixed(2))
}
