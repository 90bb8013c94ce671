package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/card-statement-converter/internal/models"
)

// ExtractPages reads a statement document and returns the plain text of
// each page in order. PDF inputs go through the library pipeline with a
// pdftotext fallback; .txt inputs are pre-extracted text with pages
// split on form feeds (used by tests and the API's text path).
func ExtractPages(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".txt":
		return extractTextFile(path)
	default:
		return nil, fmt.Errorf("unsupported document type %q: want .pdf or .txt", filepath.Ext(path))
	}
}

// extractTextFile splits a pre-extracted text file into pages on form
// feeds. A file with no form feed is a single page.
func extractTextFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%s: %w", path, models.ErrEmptyDocument)
	}

	var pages []string
	for _, page := range strings.Split(string(data), "\f") {
		if strings.TrimSpace(page) != "" {
			pages = append(pages, strings.Trim(page, "\n"))
		}
	}
	return pages, nil
}
