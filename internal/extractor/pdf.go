// Package extractor pulls per-page text out of e-statement PDFs. It tries
// the pure-Go PDF library first, then the external pdftotext command, then
// OCR, and gates every rung behind a readability check so binary garbage
// from one method never reaches the parser.
package extractor

import (
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractPages reads a PDF and returns the text of each page in order.
func ExtractPages(filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(filePath)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	// Scanned statements have no text layer at all; OCR is the last rung.
	ocrPages, ocrErr := extractWithOCR(filePath)
	if ocrErr == nil && isReadableText(ocrPages) {
		return ocrPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %v; the file may be image-based or use undecodable font encodings", libErr)
	}
	return nil, fmt.Errorf("no readable text could be extracted from %s", filePath)
}

// extractWithLibrary uses ledongthuc/pdf. Row-based extraction preserves
// the statement's column layout best; the plain-text readers are fallbacks
// for pages where row grouping comes back empty.
func extractWithLibrary(filePath string) ([]string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages := extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	if text := extractPlainText(r); text != "" {
		return []string{text}, nil
	}
	return pages, nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
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
			var sb strings.Builder
			var prevX float64
			for j, word := range row.Content {
				// A wide horizontal gap is a column boundary.
				if j > 0 && word.X-prevX > 15 {
					sb.WriteString(" ")
				}
				sb.WriteString(word.S)
				prevX = word.X + float64(len(word.S))
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractPlainText(r *pdf.Reader) string {
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

// extractWithPdftotext shells out to poppler-utils, one page at a time so
// page boundaries survive.
func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	numPages := pageCount(filePath)
	var pages []string
	for i := 1; i <= numPages; i++ {
		n := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", n, "-l", n, filePath, "-").Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed on page %d: %v", i, err)
		}
		pages = append(pages, strings.TrimSpace(string(out)))
	}
	return pages, nil
}

// pageCount asks pdfinfo; a parse failure degrades to a single page.
func pageCount(filePath string) int {
	out, err := exec.Command("pdfinfo", filePath).Output()
	if err != nil {
		return 1
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}

// statementWords appear in virtually every e-statement. Extracted text
// containing none of them is almost certainly garbage from a font the
// decoder could not map.
var statementWords = []string{
	"account", "balance", "statement", "transaction", "deposit",
	"withdrawal", "payment", "branch", "period", "page", "opening",
	"closing", "interest", "transfer",
}

func containsStatementWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// textQuality returns the ratio of plain readable characters to total.
// Strict ASCII on purpose: identity-encoded fonts produce accented
// garbage that unicode.IsLetter would happily accept.
func textQuality(pages []string) float64 {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"$%&@#!?+=*`, r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}

// isReadableText requires enough text, a high readable-character ratio,
// and at least one recognizable statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsStatementWords(pages)
}

// IsReadableText reports whether extracted pages look like statement text.
func IsReadableText(pages []string) bool {
	return isReadableText(pages)
}

// sortNumericSuffix orders page image files page-1.png, page-2.png, ...
// page-10.png correctly.
func sortNumericSuffix(names []string) {
	num := func(s string) int {
		s = strings.TrimSuffix(s, ".png")
		if idx := strings.LastIndexByte(s, '-'); idx >= 0 {
			if n, err := strconv.Atoi(s[idx+1:]); err == nil {
				return n
			}
		}
		return math.MaxInt
	}
	sort.Slice(names, func(a, b int) bool { return num(names[a]) < num(names[b]) })
}
