package parser

import (
	"strings"

	"github.com/insightdelivered/card-statement-converter/internal/models"
)

// PageBreak separates pages in the normalized text stream. A form feed
// on its own line never splits a token and keeps per-page structure
// recoverable for section scans.
const PageBreak = "\f"

// Normalize joins per-page text blocks into one searchable stream with
// the page boundaries preserved. Returns ErrEmptyDocument when there
// are no pages or every page is blank.
func Normalize(pages []string) (string, error) {
	blank := true
	joined := make([]string, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page) != "" {
			blank = false
		}
		joined = append(joined, strings.TrimRight(page, "\n"))
	}
	if blank {
		return "", models.ErrEmptyDocument
	}
	return strings.Join(joined, "\n"+PageBreak+"\n"), nil
}

// SplitPages recovers the per-page blocks from a normalized stream.
func SplitPages(text string) []string {
	return strings.Split(text, "\n"+PageBreak+"\n")
}
