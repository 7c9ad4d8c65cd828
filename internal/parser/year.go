package parser

import (
	"regexp"
	"strconv"

	"github.com/statementkit/estatement-compiler/internal/models"
)

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

// Statement date patterns, tried in order against the raw pre-section
// text. The full date range is most specific; a bare year is the fallback.
var yearPatterns = []*regexp.Regexp{
	// "March 18 to April 16, 2022"
	regexp.MustCompile(`(?:` + monthNames + `)\s+\d{1,2}\s+to\s+(?:` + monthNames + `)\s+\d{1,2},\s+(\d{4})`),
	// "April 16, 2022"
	regexp.MustCompile(`(?:` + monthNames + `)\s+\d{1,2},\s+(\d{4})`),
	// bare four-digit year
	regexp.MustCompile(`\b(\d{4})\b`),
}

// ResolveYear infers the statement's reference year from its raw text.
// Returns nil when no date pattern matches; callers log a warning and
// leave transaction years unset.
func ResolveYear(statementText string) *int {
	for _, p := range yearPatterns {
		if m := p.FindStringSubmatch(statementText); m != nil {
			year, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return &year
		}
	}
	return nil
}

// ApplyYear assigns the resolved statement year to each transaction.
// Statements are named by their closing month, so a December entry inside
// a statement whose reference year is that of the following January
// belongs to the prior calendar year.
func ApplyYear(st *models.Statement) {
	if st.Year == nil {
		return
	}
	for i := range st.Transactions {
		year := *st.Year
		if st.Transactions[i].Month == "Dec" {
			year--
		}
		st.Transactions[i].Year = &year
	}
}
