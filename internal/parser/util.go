package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseMoney converts a string like "$1,234.56" or "1,234.56" to an
// exact decimal. Monetary values never pass through binary floats.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space

	return decimal.NewFromString(s)
}

// parseSignedAmount maps an entry's amount token to a signed decimal.
// Credit markers (a leading or trailing minus, parentheses, or a CR
// suffix) yield a positive amount; unmarked amounts are purchases and
// yield a negative one, matching the summary sign convention.
func parseSignedAmount(tok string) (decimal.Decimal, error) {
	tok = strings.TrimSpace(tok)

	credit := false
	if strings.HasSuffix(tok, "CR") {
		credit = true
		tok = strings.TrimSpace(strings.TrimSuffix(tok, "CR"))
	}
	if strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")") {
		credit = true
		tok = tok[1 : len(tok)-1]
	}
	if strings.HasPrefix(tok, "-") {
		credit = true
		tok = tok[1:]
	}
	if strings.HasSuffix(tok, "-") {
		credit = true
		tok = tok[:len(tok)-1]
	}

	amount, err := parseMoney(tok)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if credit {
		return amount, nil
	}
	return amount.Neg(), nil
}

// validMonthDay reports whether a date fragment is calendar-shaped.
// Anything else is page noise that happens to look like a date.
func validMonthDay(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// containsDigit reports whether s has at least one ASCII digit.
// Reference numbers always do; merchant-name words do not.
func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
