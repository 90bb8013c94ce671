package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-converter/internal/models"
)

// Anchors for the cycle sentence and the totals block. Each is a fixed
// label phrase followed by a date or currency pattern.
var (
	// "Billing Cycle from MM/DD/YYYY to MM/DD/YYYY"
	cycleFullPattern = regexp.MustCompile(`Billing Cycle from (\d{2}/\d{2}/\d{4}) to (\d{2}/\d{2}/\d{4})`)
	// bare "MM/DD/YYYY to MM/DD/YYYY" range
	cycleRangePattern = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s+to\s+(\d{2}/\d{2}/\d{4})`)
	// year-less "Billing Cycle: MM/DD - MM/DD"
	cycleShortPattern = regexp.MustCompile(`Billing Cycle:?\s*(?:from\s+)?(\d{1,2}/\d{1,2})\s*(?:-|to)\s*(\d{1,2}/\d{1,2})`)

	// "New Balance as of MM/DD/YYYY" supplies the year for a year-less cycle
	statementDatePattern = regexp.MustCompile(`New Balance as of (\d{2}/\d{2}/\d{4})`)

	// Account Summary block with three listed magnitudes
	accountSummaryPattern = regexp.MustCompile(`(?s)Account Summary.*?Payments\s+-\s+\$?([\d,]+\.\d{2}).*?Other Credits\s+-\s+\$?([\d,]+\.\d{2}).*?Purchases/Debits\s+\+\s+\$?([\d,]+\.\d{2})`)

	// Account Balance Summary section with a labeled credit/debit pair
	balanceSectionPattern = regexp.MustCompile(`(?s)Account Balance Summary(.*?)(?:Transaction Detail|Total Fees Charged This Period)`)
	balanceCreditsPattern = regexp.MustCompile(`Payments & Other Credits\s+\(-\)\s+\$?([\d,]+\.\d{2})`)
	balanceDebitsPattern  = regexp.MustCompile(`Purchases, Fees & Others? Debits\s+\(\+\)\s+\$?([\d,]+\.\d{2})`)

	// plain labeled pair
	pairCreditsPattern = regexp.MustCompile(`Payments/Credits:?\s+\$?([\d,]+\.\d{2})`)
	pairDebitsPattern  = regexp.MustCompile(`Purchases/Debits:?\s+\$?([\d,]+\.\d{2})`)
)

// ExtractSummary locates the billing-cycle sentence and the summary
// totals block in normalized statement text. Cycle forms are tried
// most specific first; totals blocks likewise.
func ExtractSummary(text string) (models.BillingCycle, models.SummaryTotals, error) {
	cycle, err := extractCycle(text)
	if err != nil {
		return models.BillingCycle{}, models.SummaryTotals{}, err
	}
	totals, err := extractTotals(text)
	if err != nil {
		return models.BillingCycle{}, models.SummaryTotals{}, err
	}
	return cycle, totals, nil
}

func extractCycle(text string) (models.BillingCycle, error) {
	if m := cycleFullPattern.FindStringSubmatch(text); m != nil {
		return cycleFromFullDates(m[1], m[2])
	}
	if m := cycleRangePattern.FindStringSubmatch(text); m != nil {
		return cycleFromFullDates(m[1], m[2])
	}
	if m := cycleShortPattern.FindStringSubmatch(text); m != nil {
		return cycleFromFragments(text, m[1], m[2])
	}
	return models.BillingCycle{}, models.ErrCycleNotFound
}

func cycleFromFullDates(start, end string) (models.BillingCycle, error) {
	startMD, startYear, err := parseFullDate(start)
	if err != nil {
		return models.BillingCycle{}, fmt.Errorf("%w: %v", models.ErrCycleNotFound, err)
	}
	endMD, _, err := parseFullDate(end)
	if err != nil {
		return models.BillingCycle{}, fmt.Errorf("%w: %v", models.ErrCycleNotFound, err)
	}
	return models.BillingCycle{Start: startMD, End: endMD, YearHint: startYear}, nil
}

// cycleFromFragments handles the year-less cycle form. The statement
// date sits at the cycle end, so for a rollover cycle the start year is
// the statement year minus one.
func cycleFromFragments(text, start, end string) (models.BillingCycle, error) {
	startMD, err := parseFragment(start)
	if err != nil {
		return models.BillingCycle{}, fmt.Errorf("%w: %v", models.ErrCycleNotFound, err)
	}
	endMD, err := parseFragment(end)
	if err != nil {
		return models.BillingCycle{}, fmt.Errorf("%w: %v", models.ErrCycleNotFound, err)
	}

	sd := statementDatePattern.FindStringSubmatch(text)
	if sd == nil {
		return models.BillingCycle{}, fmt.Errorf("%w: cycle %s - %s carries no year evidence", models.ErrCycleNotFound, start, end)
	}
	_, year, err := parseFullDate(sd[1])
	if err != nil {
		return models.BillingCycle{}, fmt.Errorf("%w: %v", models.ErrCycleNotFound, err)
	}

	hint := year
	if startMD.Month > endMD.Month {
		hint = year - 1
	}
	return models.BillingCycle{Start: startMD, End: endMD, YearHint: hint}, nil
}

func extractTotals(text string) (models.SummaryTotals, error) {
	if m := accountSummaryPattern.FindStringSubmatch(text); m != nil {
		// payments and other credits fold into one credit total
		return totalsFromGroups([]string{m[1], m[2]}, []string{m[3]})
	}
	if m := balanceSectionPattern.FindStringSubmatch(text); m != nil {
		section := m[1]
		c := balanceCreditsPattern.FindStringSubmatch(section)
		d := balanceDebitsPattern.FindStringSubmatch(section)
		if c != nil && d != nil {
			return totalsFromGroups([]string{c[1]}, []string{d[1]})
		}
	}
	if c := pairCreditsPattern.FindStringSubmatch(text); c != nil {
		if d := pairDebitsPattern.FindStringSubmatch(text); d != nil {
			return totalsFromGroups([]string{c[1]}, []string{d[1]})
		}
	}
	return models.SummaryTotals{}, models.ErrSummaryNotFound
}

func totalsFromGroups(creditParts, debitParts []string) (models.SummaryTotals, error) {
	credits := decimal.Zero
	for _, p := range creditParts {
		v, err := parseMoney(p)
		if err != nil {
			return models.SummaryTotals{}, fmt.Errorf("%w: unparseable amount %q", models.ErrSummaryNotFound, p)
		}
		credits = credits.Add(v)
	}
	debits := decimal.Zero
	for _, p := range debitParts {
		v, err := parseMoney(p)
		if err != nil {
			return models.SummaryTotals{}, fmt.Errorf("%w: unparseable amount %q", models.ErrSummaryNotFound, p)
		}
		debits = debits.Add(v)
	}
	return models.SummaryTotals{TotalCredits: credits, TotalDebits: debits}, nil
}

// parseFullDate splits an MM/DD/YYYY token into a month/day fragment
// and a year.
func parseFullDate(s string) (models.MonthDay, int, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return models.MonthDay{}, 0, fmt.Errorf("not a full date: %q", s)
	}
	month, _ := strconv.Atoi(parts[0])
	day, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	if !validMonthDay(month, day) || year == 0 {
		return models.MonthDay{}, 0, fmt.Errorf("not a calendar date: %q", s)
	}
	return models.MonthDay{Month: month, Day: day}, year, nil
}

// parseFragment splits an MM/DD token into a month/day fragment.
func parseFragment(s string) (models.MonthDay, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return models.MonthDay{}, fmt.Errorf("not a date fragment: %q", s)
	}
	month, _ := strconv.Atoi(parts[0])
	day, _ := strconv.Atoi(parts[1])
	if !validMonthDay(month, day) {
		return models.MonthDay{}, fmt.Errorf("not a calendar date: %q", s)
	}
	return models.MonthDay{Month: month, Day: day}, nil
}
