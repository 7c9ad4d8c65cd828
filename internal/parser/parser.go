// Package parser recovers ordered transaction records from raw e-statement
// text. The pipeline for one document is: locate the transaction section,
// filter page-break and footer noise, assemble transactions with
// balance-delta direction inference, then stamp the resolved statement
// year onto each record.
package parser

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/statementkit/estatement-compiler/internal/models"
)

// Parser turns extracted page texts into a Statement. It holds no
// per-document state; every Parse call builds a fresh Assembler.
type Parser struct {
	log zerolog.Logger
}

// New returns a Parser that reports per-line and per-document warnings
// through the given logger.
func New(log zerolog.Logger) *Parser {
	return &Parser{log: log}
}

// JoinPages flattens page texts into a single blob with the page-break
// sentinel between consecutive pages and no trailing sentinel.
func JoinPages(pages []string) string {
	return strings.Join(pages, "\n"+PageBreakSentinel+"\n")
}

// Parse runs the full pipeline over one document's pages.
// ErrMissingSectionMarker is the only error; everything else degrades to
// warnings so a bad line or an unresolved year never loses the rest of
// the document.
func (p *Parser) Parse(name string, pages []string) (*models.Statement, error) {
	return p.ParseText(name, JoinPages(pages))
}

// ParseText is Parse for documents already flattened into one blob.
func (p *Parser) ParseText(name, fullText string) (*models.Statement, error) {
	log := p.log.With().Str("statement", name).Logger()

	// The year lives in the header, so resolve it before the section
	// extraction discards the preamble.
	year := ResolveYear(fullText)
	if year == nil {
		log.Warn().Msg("no statement date found, leaving transaction years unset")
	}

	section, err := ExtractSection(fullText)
	if err != nil {
		return nil, err
	}

	lines := FilterLines(strings.Split(section, "\n"))

	asm := NewAssembler(log)
	for _, line := range lines {
		asm.Feed(line)
	}

	st := &models.Statement{
		Name:           name,
		Year:           year,
		OpeningBalance: asm.OpeningBalance(),
		Transactions:   asm.Finish(),
	}
	ApplyYear(st)

	if len(st.Transactions) == 0 {
		log.Warn().Msg("no transactions assembled")
	}

	return st, nil
}
