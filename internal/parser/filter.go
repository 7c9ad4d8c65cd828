package parser

import (
	"strings"

	"github.com/statementkit/estatement-compiler/internal/models"
)

// FilterLines removes noise from the transaction section in a single
// forward pass, preserving line order.
//
// After a page break or "(continued)" banner the statement repeats its
// column headers and plan name before the next real entry, so dropping
// footer lines alone is not enough: everything is suppressed until the
// next unambiguous date token. A transaction start always cancels
// suppression, even mid-page.
func FilterLines(lines []string) []string {
	var cleaned []string
	skipUntilNextDate := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch Classify(line) {
		case models.LineSectionBreak:
			skipUntilNextDate = true
			continue
		case models.LineTransactionStart:
			skipUntilNextDate = false
		case models.LineFooter:
			continue
		}

		if !skipUntilNextDate {
			cleaned = append(cleaned, line)
		}
	}

	return cleaned
}
