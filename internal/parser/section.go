package parser

import (
	"errors"
	"strings"
)

// ErrMissingSectionMarker is returned when a document has no transaction
// section. It is recoverable per document: the caller logs a warning and
// skips the document rather than aborting the batch.
var ErrMissingSectionMarker = errors.New("statement has no transaction section marker")

// ExtractSection returns the statement text after the first occurrence of
// the transaction-section marker, discarding the account summary and
// header narrative before it. Only the first occurrence is used — the
// marker reappears on later pages only in its "(continued)" variant, which
// the classifier handles as a section break.
func ExtractSection(fullText string) (string, error) {
	_, after, found := strings.Cut(fullText, sectionMarker)
	if !found {
		return "", ErrMissingSectionMarker
	}
	return after, nil
}
