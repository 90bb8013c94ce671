package parser

import (
	"fmt"
	"time"

	"github.com/insightdelivered/card-statement-converter/internal/models"
)

// ResolveYear assigns a concrete year to a transaction month using the
// billing cycle. Inside a single-year cycle every month takes the hint
// year. Across a rollover cycle (December to January), months at or
// after the cycle start belong to the hint year and months at or before
// the cycle end belong to the following year. A month in neither
// bracket means the extraction upstream is corrupt and is reported as
// ErrAmbiguousDate, never defaulted.
func ResolveYear(month int, cycle models.BillingCycle) (int, error) {
	if !cycle.CrossesYear() {
		return cycle.YearHint, nil
	}
	if month >= cycle.Start.Month {
		return cycle.YearHint, nil
	}
	if month <= cycle.End.Month {
		return cycle.YearHint + 1, nil
	}
	return 0, fmt.Errorf("%w: month %d outside cycle %02d/%02d - %02d/%02d",
		models.ErrAmbiguousDate, month,
		cycle.Start.Month, cycle.Start.Day, cycle.End.Month, cycle.End.Day)
}

// Resolve turns raw extracted entries into resolved transactions:
// each gets a concrete date from the billing cycle, a cleaned
// description, and the source document identifier. The first ambiguous
// date aborts the whole document; a failed pass emits no transactions.
func Resolve(raws []models.RawTransaction, cycle models.BillingCycle, rules *Ruleset, source string) ([]models.Transaction, error) {
	txns := make([]models.Transaction, 0, len(raws))
	for _, raw := range raws {
		year, err := ResolveYear(raw.Month, cycle)
		if err != nil {
			return nil, fmt.Errorf("entry %02d/%02d %q: %w", raw.Month, raw.Day, raw.RawDescription, err)
		}
		txns = append(txns, models.Transaction{
			Date:        time.Date(year, time.Month(raw.Month), raw.Day, 0, 0, 0, 0, time.UTC),
			Reference:   raw.Reference,
			Description: rules.Clean(raw.RawDescription),
			Amount:      raw.Amount,
			Source:      source,
		})
	}
	return txns, nil
}
