package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/card-statement-converter/internal/models"
)

// Section anchors and line shapes for the transaction listing.
var (
	sectionStartPattern = regexp.MustCompile(`Transaction Detail`)
	sectionEndPattern   = regexp.MustCompile(`Total Fees Charged This Period`)

	// column headers repeated at the top of every listing page
	columnHeaderPattern = regexp.MustCompile(`Date\s+Reference #\s+Description\s+Amount`)

	// footer marker that ends a page's listing
	continuedPattern = regexp.MustCompile(`(?i)continued on next page`)

	// subtotal rows printed among the entries
	subtotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^Payments\s+-\$[\d,]+\.\d{2}$`),
		regexp.MustCompile(`^Other Credits\s+-\$[\d,]+\.\d{2}$`),
		regexp.MustCompile(`^Purchases and Other Debits\s+\$[\d,]+\.\d{2}$`),
	}

	// One listed entry: date fragment, optional reference, description,
	// amount token. The optional reference must not break the adjacent
	// captures; RE2 has no lookahead, so the references-carry-digits
	// rule is checked after capture.
	entryPattern = regexp.MustCompile(`^(\d{2}/\d{2})\s+(?:([A-Z0-9]{6,})\s+)?(.+?)\s+(\(?-?\$[\d,]+\.\d{2}\)?(?:-|\s?CR)?)$`)
)

// ExtractTransactions parses the bounded transaction listing out of
// normalized text. The section opens at the Transaction Detail header
// and closes at the fee-summary header or end of text; it may span
// pages. Returns ErrNoTransactionSection when the opening header never
// appears. An empty entry list inside a found section is valid (a
// zero-activity statement) and is not an error.
func ExtractTransactions(text string) ([]models.RawTransaction, error) {
	pages := SplitPages(text)

	var txns []models.RawTransaction
	inSection := false

	for pageIdx, pageText := range pages {
		if !inSection {
			loc := sectionStartPattern.FindStringIndex(pageText)
			if loc == nil {
				continue
			}
			inSection = true
			pageText = pageText[loc[1]:]
		}

		done := false
		if loc := sectionEndPattern.FindStringIndex(pageText); loc != nil {
			pageText = pageText[:loc[0]]
			done = true
		}

		// anything after the footer marker is page furniture
		if loc := continuedPattern.FindStringIndex(pageText); loc != nil {
			pageText = pageText[:loc[0]]
		}

		// continuation pages repeat the column headers; drop the
		// furniture above them when they are present
		if pageIdx > 0 {
			if loc := columnHeaderPattern.FindStringIndex(pageText); loc != nil {
				pageText = pageText[loc[1]:]
			}
		}

		for _, line := range strings.Split(pageText, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || columnHeaderPattern.MatchString(trimmed) || isSubtotalLine(trimmed) {
				continue
			}

			if raw, ok := parseEntryLine(trimmed); ok {
				txns = append(txns, raw)
				continue
			}

			// a line with no date/amount of its own is the previous
			// entry's description wrapping
			if len(txns) > 0 {
				txns[len(txns)-1].RawDescription += " " + trimmed
			}
		}

		if done {
			break
		}
	}

	if !inSection {
		return nil, models.ErrNoTransactionSection
	}
	return txns, nil
}

// parseEntryLine matches one listed entry. Lines that are only
// date-shaped (month or day out of range) are not entries.
func parseEntryLine(line string) (models.RawTransaction, bool) {
	m := entryPattern.FindStringSubmatch(line)
	if m == nil {
		return models.RawTransaction{}, false
	}

	frag, err := parseFragment(m[1])
	if err != nil {
		return models.RawTransaction{}, false
	}

	ref := m[2]
	desc := strings.TrimSpace(m[3])
	if ref != "" && !containsDigit(ref) {
		// a digit-less token is a merchant word, not a reference
		desc = ref + " " + desc
		ref = ""
	}

	amount, err := parseSignedAmount(m[4])
	if err != nil {
		return models.RawTransaction{}, false
	}

	return models.RawTransaction{
		Month:          frag.Month,
		Day:            frag.Day,
		Reference:      ref,
		RawDescription: desc,
		Amount:         amount,
	}, true
}

func isSubtotalLine(line string) bool {
	for _, p := range subtotalPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
