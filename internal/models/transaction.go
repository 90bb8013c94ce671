package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a statement entry as printed: a month/day fragment
// with no year, an optional reference number, the uncleaned description,
// and a signed amount (credits positive, debits negative).
type RawTransaction struct {
	Month          int
	Day            int
	Reference      string // empty when the entry carries none
	RawDescription string
	Amount         decimal.Decimal
}

// Transaction is a resolved statement entry: concrete date, cleaned
// description, signed amount, and the document it came from.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Reference   string          `json:"reference,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
}

// MonthDay is a date fragment without a year.
type MonthDay struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

// BillingCycle is the statement period. Start and end carry month/day
// only; YearHint is the calendar year of the cycle start and is what
// lets month/day fragments resolve to concrete dates.
type BillingCycle struct {
	Start    MonthDay `json:"start"`
	End      MonthDay `json:"end"`
	YearHint int      `json:"yearHint"`
}

// CrossesYear reports whether the cycle spans a December-to-January
// style year boundary.
func (c BillingCycle) CrossesYear() bool {
	return c.Start.Month > c.End.Month
}

// SummaryTotals holds the statement's self-reported totals as
// non-negative magnitudes.
type SummaryTotals struct {
	TotalCredits decimal.Decimal `json:"totalCredits"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
}

// ReconciliationReport compares the summary totals against the sums of
// the extracted transactions. Built once per document, never mutated.
type ReconciliationReport struct {
	ExpectedCredits decimal.Decimal `json:"expectedCredits"`
	ActualCredits   decimal.Decimal `json:"actualCredits"`
	ExpectedDebits  decimal.Decimal `json:"expectedDebits"`
	ActualDebits    decimal.Decimal `json:"actualDebits"`
	CreditsMatch    bool            `json:"creditsMatch"`
	DebitsMatch     bool            `json:"debitsMatch"`
}

// Matched reports whether both totals reconciled exactly.
func (r ReconciliationReport) Matched() bool {
	return r.CreditsMatch && r.DebitsMatch
}

// CreditsDiff returns actual minus expected credits.
func (r ReconciliationReport) CreditsDiff() decimal.Decimal {
	return r.ActualCredits.Sub(r.ExpectedCredits)
}

// DebitsDiff returns actual minus expected debits.
func (r ReconciliationReport) DebitsDiff() decimal.Decimal {
	return r.ActualDebits.Sub(r.ExpectedDebits)
}

// Statement is the result of one document pass.
type Statement struct {
	Source       string               `json:"source"`
	Cycle        BillingCycle         `json:"cycle"`
	Totals       SummaryTotals        `json:"totals"`
	Transactions []Transaction        `json:"transactions"`
	Report       ReconciliationReport `json:"report"`
	Verified     bool                 `json:"verified"`
}
