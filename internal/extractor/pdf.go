package extractor

import (
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// extractPDF pulls per-page text out of a PDF, trying the library's
// extraction methods from most to least structured and gating each
// result on a readability check. PDFs with font encodings the library
// cannot decode fall through to the external pdftotext command when it
// is installed. Unreadable output is never returned as text.
func extractPDF(path string) ([]string, error) {
	pages, libErr := extractWithLibrary(path)
	if libErr == nil && readable(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(path)
	if popplerErr == nil && readable(popplerPages) {
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("pdf text extraction failed: %v; the file may be image-based or use undecodable font encodings", libErr)
	}
	return nil, fmt.Errorf("no readable text extracted from %s; the file may be image-based or use undecodable font encodings", path)
}

// extractWithLibrary walks ledongthuc/pdf's methods in order: row-grouped
// text, positioned-content reassembly, per-page styled plain text, then
// whole-document plain text. The library is known to panic on malformed
// files, so the panic is converted to an error here.
func extractWithLibrary(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library panic: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	if pages = pagesByRow(r, numPages); readable(pages) {
		return pages, nil
	}
	if pages = pagesByContent(r, numPages); readable(pages) {
		return pages, nil
	}
	if pages = pagesByPlainText(r, numPages); readable(pages) {
		return pages, nil
	}
	if doc := documentPlainText(r); readable([]string{doc}) {
		return []string{doc}, nil
	}
	return pages, nil
}

// pagesByRow uses GetTextByRow, the method with the best layout
// preservation for text-native statements.
func pagesByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var words []string
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// pagesByContent reassembles lines from positioned text fragments:
// fragments grouped into rows by rounded Y, rows top to bottom (PDF Y
// runs bottom-up), fragments left to right, with a wide X gap rendered
// as a column break.
func pagesByContent(r *pdf.Reader, numPages int) []string {
	type fragment struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]fragment)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], fragment{x: t.X, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			frags := rows[y]
			sort.Slice(frags, func(a, b int) bool { return frags[a].x < frags[b].x })

			var parts []string
			var prevX float64
			for j, frag := range frags {
				if j > 0 && frag.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, frag.s)
				prevX = frag.x
			}
			if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// pagesByPlainText uses per-page GetPlainText with the page's font map.
func pagesByPlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

// documentPlainText is the library's whole-document extraction path.
// Page boundaries are lost, so it ranks last.
func documentPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext shells out to poppler's pdftotext, extracting
// page by page so page boundaries survive.
func extractWithPdftotext(path string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	var pages []string
	for i := 1; ; i++ {
		p := fmt.Sprintf("%d", i)
		out, err := exec.Command("pdftotext", "-layout", "-f", p, "-l", p, path, "-").Output()
		if err != nil || strings.TrimSpace(string(out)) == "" {
			break
		}
		pages = append(pages, strings.TrimSpace(string(out)))
	}
	if len(pages) == 0 {
		out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed: %v", err)
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			return []string{text}, nil
		}
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

// statementWords is vocabulary a credit-card statement always carries
// somewhere. Extracted text containing none of these is garbage from an
// identity-encoded font, not a statement.
var statementWords = []string{
	"statement", "account", "balance", "payment", "credit", "debit",
	"transaction", "purchase", "billing", "cycle", "total", "amount",
	"reference", "date", "detail", "period", "page",
}

// readable gates an extraction result: enough text, a high enough
// ratio of plain ASCII characters, and at least one statement word.
// The ASCII check is deliberately strict; unicode.IsLetter matches the
// accented garbage that undecodable fonts produce.
func readable(pages []string) bool {
	total := 0
	ok := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"$%&@#!?+=*`, r) {
				ok++
			}
		}
	}
	if total <= 50 || float64(ok)/float64(total) <= 0.6 {
		return false
	}

	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}
