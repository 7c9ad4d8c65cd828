package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/statementkit/estatement-compiler/internal/models"
)

// PageBreakSentinel separates page texts when a document is flattened into
// a single blob. The extractor inserts it between consecutive pages.
const PageBreakSentinel = "=== PAGE BREAK ==="

const (
	// sectionMarker opens the transaction section of a statement.
	sectionMarker = "Here's what happened in your account this statement period"
	// continuedMarker is the repeated banner at the top of follow-on pages.
	continuedMarker = "Here's what happened in your account (continued)"
)

// txnStartPattern matches the month+day token that opens a ledger entry,
// e.g. "Jan9" or "Dec31". Applied to the whitespace-removed form of the
// line because extraction sometimes injects stray spaces inside the token.
var txnStartPattern = regexp.MustCompile(
	`^(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\d{1,2}`,
)

// footerPatterns identify page furniture that carries no transaction data.
var footerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Page\s*\d+\s*of\s*\d+`), // page numbers
	regexp.MustCompile(`(?i)VASBS\d*`),              // internal reference codes
	regexp.MustCompile(`[-_]{3,}`),                  // separator rules
	regexp.MustCompile(`^\d{6,}$`),                  // bare account-number runs
	regexp.MustCompile(`(?i)Closing\s*Balance`),     // closing balance announcement
}

// Classify tags a single statement line. It is line-local and
// side-effect-free; all ordering decisions live in the filter and the
// assembler.
func Classify(line string) models.LineKind {
	line = strings.TrimSpace(line)

	if strings.Contains(line, PageBreakSentinel) || strings.Contains(line, continuedMarker) {
		return models.LineSectionBreak
	}
	if IsTransactionStart(line) {
		return models.LineTransactionStart
	}
	for _, p := range footerPatterns {
		if p.MatchString(line) {
			return models.LineFooter
		}
	}
	return models.LineContinuation
}

// IsTransactionStart reports whether the line opens a new ledger entry.
func IsTransactionStart(line string) bool {
	return txnStartPattern.MatchString(stripSpaces(line))
}

// stripSpaces removes all whitespace so "Jan 9" and "Jan9" canonicalize to
// the same token.
func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
